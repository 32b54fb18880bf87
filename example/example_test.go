// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (linux || darwin) && (amd64 || arm64) && !dlbind.disabled

package example

import (
	"testing"

	"github.com/DataDog/go-dlbind"
	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/DataDog/go-dlbind/internal/fakelib"
	"github.com/stretchr/testify/require"
)

var borrowed = map[string]dlbind.Ownership{
	"greet":           dlbind.Borrowed,
	"repeat_string":   dlbind.Borrowed,
	"sort_json_array": dlbind.Borrowed,
}

func TestOpen(t *testing.T) {
	t.Run("bound", func(t *testing.T) {
		loader := &fakelib.Loader{}
		lib, err := Open(DefaultName, borrowed, dlbind.WithLoader(loader))
		require.NoError(t, err)
		require.NoError(t, lib.Close())
		require.Equal(t, 1, loader.Closes())
		require.Equal(t, DefaultName, lib.Handle().Name())
	})

	t.Run("missing symbol", func(t *testing.T) {
		loader := &fakelib.Loader{Hidden: []string{"maybe"}}
		_, err := Open(DefaultName, borrowed, dlbind.WithLoader(loader))
		var notFound *dlerrors.SymbolNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "maybe", notFound.Symbol)
		require.Equal(t, 1, loader.Closes(), "the library must be released")
	})

	t.Run("ownership unspecified", func(t *testing.T) {
		loader := &fakelib.Loader{}
		_, err := Open(DefaultName, map[string]dlbind.Ownership{"greet": dlbind.Borrowed}, dlbind.WithLoader(loader))
		require.ErrorIs(t, err, dlerrors.ErrOwnershipUnspecified)
		require.Equal(t, 1, loader.Closes())
	})

	t.Run("missing library", func(t *testing.T) {
		_, err := Open("nope.so", borrowed, dlbind.WithLoader(&fakelib.Loader{}))
		require.ErrorAs(t, err, new(*dlerrors.LoadError))
	})
}

func TestSortInts(t *testing.T) {
	for name, ownership := range map[string]dlbind.Ownership{
		"borrowed": dlbind.Borrowed,
		"owned":    dlbind.Owned,
	} {
		t.Run(name, func(t *testing.T) {
			lib, err := Open(DefaultName,
				map[string]dlbind.Ownership{
					"greet":           dlbind.Borrowed,
					"repeat_string":   dlbind.Borrowed,
					"sort_json_array": ownership,
				},
				dlbind.WithLoader(&fakelib.Loader{}),
				dlbind.WithDeallocator("example_free"),
			)
			require.NoError(t, err)
			defer lib.Close()

			sorted, err := lib.SortInts([]int64{3, 1, 4, 1, 5, 9, 2, 6})
			require.NoError(t, err)
			require.Equal(t, []int64{1, 1, 2, 3, 4, 5, 6, 9}, sorted)

			empty, err := lib.SortInts([]int64{})
			require.NoError(t, err)
			require.Empty(t, empty)
		})
	}

	t.Run("invalid payload", func(t *testing.T) {
		lib, err := Open(DefaultName, borrowed, dlbind.WithLoader(&fakelib.Loader{}))
		require.NoError(t, err)
		defer lib.Close()

		_, err = lib.SortJSONArray.Call("not json")
		require.ErrorIs(t, err, dlerrors.ErrNullString)
	})
}

func TestDemoSequence(t *testing.T) {
	lib, err := Open(DefaultName, borrowed, dlbind.WithLoader(&fakelib.Loader{}))
	require.NoError(t, err)
	defer lib.Close()

	f10, err := lib.Factorial.Call(10)
	require.NoError(t, err)
	require.EqualValues(t, 3628800, f10)

	greeting, err := lib.Greet.Call("World")
	require.NoError(t, err)
	require.Equal(t, "Hello, World!", greeting)

	haha, err := lib.RepeatString.Call("ha", 3)
	require.NoError(t, err)
	require.Equal(t, "hahaha", haha)

	_, err = lib.Maybe.Call()
	require.NoError(t, err)
}
