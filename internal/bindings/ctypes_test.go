// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package bindings

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCString(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"simple ascii", "hello"},
		{"with special chars", "hello\tworld\n"},
		{"unicode", "Hello, 世界"},
		{"long string", strings.Repeat("a", 1000)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cstr := CString(tc.input)
			require.Len(t, cstr, len(tc.input)+1)
			require.Zero(t, cstr[len(cstr)-1], "missing NUL terminator")
			require.Equal(t, tc.input, string(cstr[:len(cstr)-1]))
			require.NotZero(t, SliceAddr(cstr))
		})
	}

	t.Run("embedded NUL", func(t *testing.T) {
		require.Nil(t, CString("special\x00chars"))
	})
}

func TestGoString(t *testing.T) {
	t.Run("null pointer", func(t *testing.T) {
		str, ok := GoString(0)
		require.True(t, ok)
		require.Empty(t, str)
	})

	for _, input := range []string{"", "a", "hello world", "Hello, 世界", strings.Repeat("y", 4096)} {
		t.Run(input[:min(len(input), 16)], func(t *testing.T) {
			cstr := CString(input)
			str, ok := GoString(SliceAddr(cstr))
			runtime.KeepAlive(cstr)
			require.True(t, ok)
			require.Equal(t, input, str)
		})
	}

	t.Run("copies", func(t *testing.T) {
		cstr := CString("mutable")
		str, _ := GoString(SliceAddr(cstr))
		cstr[0] = 'M'
		runtime.KeepAlive(cstr)
		require.Equal(t, "mutable", str)
	})
}

func TestSliceAddr(t *testing.T) {
	require.Zero(t, SliceAddr(nil))
	require.Zero(t, SliceAddr([]byte{}))
}
