// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"fmt"
	"runtime"
	"time"

	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/DataDog/go-dlbind/internal/bindings"
)

// Symbol is an export resolved from a [Library] with its declared [Signature].
// It is obtained from [Library.Resolve] and is only valid until the library is
// closed. Its address never leaves the package: calls go through [Symbol.Call]
// or one of the typed wrappers.
type Symbol struct {
	lib  *Library
	name string
	addr uintptr
	sig  Signature
}

func (sym *Symbol) Name() string {
	return sym.name
}

func (sym *Symbol) Signature() Signature {
	return sym.sig
}

// Library returns the library the symbol was resolved from.
func (sym *Symbol) Library() *Library {
	return sym.lib
}

// Call invokes the symbol with raw word-sized arguments, following the
// platform C calling convention, and returns the raw integer return register.
// At most 15 arguments are supported. Prefer the typed wrappers which convert
// arguments and results according to the symbol's [Signature].
func (sym *Symbol) Call(args ...uintptr) (uintptr, error) {
	return sym.call(args...)
}

func (sym *Symbol) call(args ...uintptr) (ret uintptr, err error) {
	if !sym.lib.retain() {
		return 0, fmt.Errorf("calling %s: %w", sym.name, dlerrors.ErrLibraryClosed)
	}
	defer sym.lib.release()

	start := time.Now()
	err = tryCall(sym.name, func() error {
		ret = bindings.SyscallN(sym.addr, args...)
		return nil
	})
	sym.lib.stats.add(sym.name, time.Since(start))
	return ret, err
}

// expect checks the symbol was resolved with the signature a wrapper is about
// to cast it to.
func (sym *Symbol) expect(sig Signature) error {
	if sym == nil {
		return dlerrors.ErrUnbound
	}
	if !sym.sig.Equal(sig) {
		return &dlerrors.SignatureMismatchError{Symbol: sym.name, Declared: sym.sig.String(), Expected: sig.String()}
	}
	return nil
}

// callString calls the symbol with a single C string argument built from str,
// kept alive for the duration of the call.
func (sym *Symbol) callString(str string, extra ...uintptr) (uintptr, error) {
	cstr := bindings.CString(str)
	if cstr == nil {
		return 0, &dlerrors.EncodingError{Symbol: sym.name, Value: "argument 1", Err: dlerrors.ErrEmbeddedNUL}
	}
	ret, err := sym.call(append([]uintptr{bindings.SliceAddr(cstr)}, extra...)...)
	runtime.KeepAlive(cstr)
	return ret, err
}
