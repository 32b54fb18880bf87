// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (linux || darwin) && (amd64 || arm64) && !dlbind.disabled

package dlbind

import (
	"bytes"
	"errors"
	stdlog "log"
	"os"
	"runtime"
	"sync"
	"testing"

	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/DataDog/go-dlbind/internal/fakelib"
	"github.com/DataDog/go-dlbind/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFake(t *testing.T, opts ...Option) (*Library, *fakelib.Loader) {
	t.Helper()
	loader := &fakelib.Loader{}
	lib, err := Open(fakelib.DefaultName, append([]Option{WithLoader(loader)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib, loader
}

func TestOpen(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		lib, loader := openFake(t)
		require.Equal(t, fakelib.DefaultName, lib.Name())
		require.Equal(t, fakelib.DefaultName, lib.Path())
		require.Equal(t, 1, loader.Opens())
	})

	t.Run("logs the opened path", func(t *testing.T) {
		var buf bytes.Buffer
		stdlog.SetOutput(&buf)
		defer func(level log.Level) {
			log.SetLevel(level)
			stdlog.SetOutput(os.Stderr)
		}(log.CurrentLevel())
		log.SetLevel(log.LevelInfo)

		openFake(t)
		require.Contains(t, buf.String(), `[INFO ] dlbind: opened library "example.so" from "example.so"`)
	})

	t.Run("platform name", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("lib<name>.so is the linux naming scheme")
		}
		lib, err := Open("example", WithLoader(&fakelib.Loader{Name: "libexample.so"}))
		require.NoError(t, err)
		defer lib.Close()
		require.Equal(t, "example", lib.Name())
		require.Equal(t, "libexample.so", lib.Path())
	})

	t.Run("missing", func(t *testing.T) {
		lib, err := Open("does-not-exist.so", WithLoader(&fakelib.Loader{}))
		require.Nil(t, lib)

		var loadErr *dlerrors.LoadError
		require.ErrorAs(t, err, &loadErr)
		require.Equal(t, "does-not-exist.so", loadErr.Library)
		require.Equal(t, []string{"does-not-exist.so"}, loadErr.Attempts)
		require.ErrorContains(t, err, "No such file or directory")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := Open(" ", WithLoader(&fakelib.Loader{}))
		require.ErrorAs(t, err, new(*dlerrors.LoadError))
	})

	t.Run("bad option", func(t *testing.T) {
		loader := &fakelib.Loader{}
		for _, opt := range []Option{WithLoader(nil), WithDeallocator("  ")} {
			_, err := Open(fakelib.DefaultName, WithLoader(loader), opt)
			require.Error(t, err)
			var loadErr *dlerrors.LoadError
			require.False(t, errors.As(err, &loadErr), "nothing was loaded")
		}
		require.Zero(t, loader.Opens())
	})

	t.Run("missing deallocator", func(t *testing.T) {
		loader := &fakelib.Loader{}
		_, err := Open(fakelib.DefaultName, WithLoader(loader), WithDeallocator("no_such_free"))
		require.ErrorAs(t, err, new(*dlerrors.SymbolNotFoundError))
		require.Equal(t, 1, loader.Closes())
	})
}

func TestResolve(t *testing.T) {
	lib, _ := openFake(t)

	t.Run("found", func(t *testing.T) {
		sym, err := lib.Resolve("factorial", Sig(Int64, Int64))
		require.NoError(t, err)
		require.Equal(t, "factorial", sym.Name())
		require.Equal(t, "int64_t(int64_t)", sym.Signature().String())
		require.Same(t, lib, sym.Library())

		again, err := lib.Resolve("factorial", Sig(Int64, Int64))
		require.NoError(t, err)
		require.Same(t, sym, again)
	})

	t.Run("misspelled", func(t *testing.T) {
		_, err := lib.Resolve("facotrial", Sig(Int64, Int64))
		var notFound *dlerrors.SymbolNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "facotrial", notFound.Symbol)
		require.Equal(t, fakelib.DefaultName, notFound.Library)
	})

	t.Run("signature mismatch", func(t *testing.T) {
		_, err := lib.Resolve("factorial", Sig(Int32, Int32))
		require.ErrorAs(t, err, new(*dlerrors.SignatureMismatchError))
	})
}

func TestClose(t *testing.T) {
	t.Run("once", func(t *testing.T) {
		loader := &fakelib.Loader{}
		lib, err := Open(fakelib.DefaultName, WithLoader(loader))
		require.NoError(t, err)

		require.NoError(t, lib.Close())
		require.NoError(t, lib.Close())
		require.Equal(t, 1, loader.Closes())
	})

	t.Run("use after close", func(t *testing.T) {
		loader := &fakelib.Loader{}
		lib, err := Open(fakelib.DefaultName, WithLoader(loader))
		require.NoError(t, err)
		sym, err := lib.Resolve("factorial", Sig(Int64, Int64))
		require.NoError(t, err)
		factorial, err := NewInt64Func(sym)
		require.NoError(t, err)

		require.NoError(t, lib.Close())

		_, err = factorial.Call(3)
		require.ErrorIs(t, err, dlerrors.ErrLibraryClosed)
		_, err = lib.Resolve("greet", Sig(CString, CString))
		require.ErrorIs(t, err, dlerrors.ErrLibraryClosed)
	})

	t.Run("concurrent calls", func(t *testing.T) {
		loader := &fakelib.Loader{}
		lib, err := Open(fakelib.DefaultName, WithLoader(loader))
		require.NoError(t, err)
		sym, err := lib.Resolve("factorial", Sig(Int64, Int64))
		require.NoError(t, err)
		factorial, err := NewInt64Func(sym)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					n, err := factorial.Call(5)
					if err != nil {
						assert.ErrorIs(t, err, dlerrors.ErrLibraryClosed)
						return
					}
					assert.EqualValues(t, 120, n)
				}
			}()
		}
		require.NoError(t, lib.Close())
		wg.Wait()
		require.Equal(t, 1, loader.Closes())
	})
}

func TestStats(t *testing.T) {
	lib, _ := openFake(t)
	sym, err := lib.Resolve("factorial", Sig(Int64, Int64))
	require.NoError(t, err)
	factorial, err := NewInt64Func(sym)
	require.NoError(t, err)

	for i := int64(0); i < 3; i++ {
		_, err := factorial.Call(i)
		require.NoError(t, err)
	}

	stats := lib.Stats()
	require.EqualValues(t, 3, stats.Calls["factorial"])
	require.Contains(t, stats.Timers, "factorial")

	metrics := stats.Metrics()
	require.EqualValues(t, 3, metrics["factorial.calls"])
	require.IsType(t, float64(0), metrics["factorial.duration"])

	// snapshots are copies
	stats.Calls["factorial"] = 42
	require.EqualValues(t, 3, lib.Stats().Calls["factorial"])
}

func TestSymbolCallPanics(t *testing.T) {
	lib, _ := openFake(t)
	sym, err := lib.Resolve("factorial", Sig(Int64, Int64))
	require.NoError(t, err)

	// purego refuses more than 15 arguments
	_, err = sym.Call(make([]uintptr, 16)...)
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	require.Equal(t, "factorial", panicErr.Op)
	require.ErrorContains(t, err, "panic while calling factorial")

	// The library stays usable for well-formed calls
	n, err := sym.Call(5)
	require.NoError(t, err)
	require.EqualValues(t, 120, n)
}
