// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/DataDog/go-dlbind/internal/bindings"
	"github.com/DataDog/go-dlbind/internal/log"
)

// Library is a shared library loaded into the process. It is obtained from
// [Open] and must be released by calling [Library.Close] once no longer in use.
// Symbols resolved from a Library must not be used after it was closed: calls
// then fail with [dlerrors.ErrLibraryClosed].
type Library struct {
	// Lock-less reference counter. The library itself holds one reference,
	// released by Close, and every in-flight call holds another one. The
	// native handle is closed when the counter reaches 0, so a Close racing
	// with a call never unmaps code that is still running.
	refCounter atomic.Int32
	closed     atomic.Bool

	name   string
	path   string
	handle uintptr
	loader Loader

	// Address of the `void(char*)` routine releasing owned strings, or 0 to
	// use the C runtime's free(3).
	deallocator uintptr

	mu      sync.Mutex
	symbols map[string]*Symbol

	stats statsStore
}

// Open loads the shared library name. A name with a directory component is
// loaded as-is. Otherwise the configured search paths are tried first, then the
// platform search mechanism (LD_LIBRARY_PATH, DYLD_LIBRARY_PATH, PATH...). A
// name without extension also stands for its platform file names, e.g.
// `libexample.so` and `example.so` for `example` on linux.
//
// Failures to find or map the library are reported as a [*dlerrors.LoadError].
// Invalid options are returned as-is, before anything is loaded.
func Open(name string, opts ...Option) (*Library, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, &dlerrors.LoadError{Library: name, Err: errors.New("empty library name")}
	}

	if cfg.loader == nil {
		if ok, err := SupportsTarget(); !ok {
			return nil, &dlerrors.LoadError{Library: name, Err: err}
		}
		cfg.loader = dlLoader{}
	}

	attempts := candidatePaths(name, cfg.searchPaths, runtime.GOOS)
	errs := make([]error, 0, len(attempts))
	for _, path := range attempts {
		handle, err := cfg.loader.Open(path, cfg.flags)
		if err != nil {
			log.Debugf("cannot open %q: %v", path, err)
			errs = append(errs, err)
			continue
		}

		lib := &Library{
			name:    name,
			path:    path,
			handle:  handle,
			loader:  cfg.loader,
			symbols: make(map[string]*Symbol),
		}
		lib.refCounter.Store(1) // We count the library itself in the counter

		if cfg.deallocator != "" {
			sym, err := lib.Resolve(cfg.deallocator, Sig(Void, CString))
			if err != nil {
				if closeErr := lib.Close(); closeErr != nil {
					log.Warnf("closing %q after a failed deallocator lookup: %v", path, closeErr)
				}
				return nil, err
			}
			lib.deallocator = sym.addr
		}

		log.Infof("opened library %q from %q", name, path)
		return lib, nil
	}

	return nil, &dlerrors.LoadError{Library: name, Attempts: attempts, Err: errors.Join(errs...)}
}

// Name returns the logical name the library was opened with.
func (lib *Library) Name() string {
	return lib.name
}

// Path returns the name or path the loader actually opened.
func (lib *Library) Path() string {
	return lib.path
}

// Resolve looks up the export name and declares its signature. Lookups are
// cached: resolving the same name again returns the same [*Symbol], provided
// the signature is the same. A missing export is reported as a
// [*dlerrors.SymbolNotFoundError].
func (lib *Library) Resolve(name string, sig Signature) (*Symbol, error) {
	if !lib.retain() {
		return nil, fmt.Errorf("resolving %q: %w", name, dlerrors.ErrLibraryClosed)
	}
	defer lib.release()

	lib.mu.Lock()
	defer lib.mu.Unlock()

	if sym, ok := lib.symbols[name]; ok {
		if !sym.sig.Equal(sig) {
			return nil, &dlerrors.SignatureMismatchError{Symbol: name, Declared: sym.sig.String(), Expected: sig.String()}
		}
		return sym, nil
	}

	addr, err := lib.loader.Lookup(lib.handle, name)
	if err != nil || addr == 0 {
		return nil, &dlerrors.SymbolNotFoundError{Library: lib.name, Symbol: name, Err: err}
	}

	sym := &Symbol{lib: lib, name: name, addr: addr, sig: sig}
	lib.symbols[name] = sym
	log.Debugf("resolved %s %s from %q", sig, name, lib.name)
	return sym, nil
}

// Stats returns a snapshot of the calls made through the library symbols.
func (lib *Library) Stats() Stats {
	return lib.stats.snapshot()
}

// Close releases the library. Only the first call has an effect; the native
// handle is unmapped once the calls still in flight have returned. The returned
// error is the loader's, when the unmapping happens within this call.
func (lib *Library) Close() error {
	if !lib.closed.CompareAndSwap(false, true) {
		return nil
	}
	return lib.release()
}

// retain increments the reference counter of this [Library]. Returns true if
// the library is still usable. Calls to retain must be balanced with calls to
// release.
func (lib *Library) retain() bool {
	if lib.closed.Load() {
		return false
	}
	return lib.addRefCounter(1) > 0
}

func (lib *Library) release() error {
	if lib.addRefCounter(-1) != 0 {
		// Either the counter is still positive (the library is still referenced), or it had previously
		// reached 0 and some other call has done the cleanup already.
		return nil
	}

	err := lib.loader.Close(lib.handle)
	log.Debugf("closed library %q: %v", lib.name, err)
	lib.handle = 0 // Makes it easy to spot use-after-free/double-free issues
	return err
}

// addRefCounter adds x to Library.refCounter. The return value indicates whether the refCounter
// reached 0 as part of this call or not, which can be used to perform "only-once" activities:
//
// * result > 0    => the Library is still usable
// * result == 0   => the Library is no longer usable, ref counter reached 0 as part of this call
// * result == -1  => the Library is no longer usable, ref counter was already 0 previously
func (lib *Library) addRefCounter(x int32) int32 {
	// We use a CAS loop to avoid setting the refCounter to a negative value.
	for {
		current := lib.refCounter.Load()
		if current <= 0 {
			// The object had already been released
			return -1
		}

		next := current + x
		if swapped := lib.refCounter.CompareAndSwap(current, next); swapped {
			return max(next, 0)
		}
	}
}

// deallocate releases an owned string through the configured deallocator.
func (lib *Library) deallocate(symbol string, ptr uintptr) error {
	if !lib.retain() {
		return fmt.Errorf("releasing string returned by %s: %w", symbol, dlerrors.ErrLibraryClosed)
	}
	defer lib.release()

	free := lib.deallocator
	if free == 0 {
		libc, err := processLibc()
		if err != nil {
			return fmt.Errorf("releasing string returned by %s: %w", symbol, err)
		}
		free = libc.FreeAddr()
	}

	return tryCall("free("+symbol+")", func() error {
		bindings.SyscallN(free, ptr)
		return nil
	})
}

var processLibc = sync.OnceValues(bindings.NewLibc)
