// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Callbacks need purego.NewCallback, which is only available on these targets
//go:build (linux || darwin) && (amd64 || arm64) && !dlbind.disabled

// Package fakelib implements the exports of the demo library in Go and serves
// them through a [dlbind.Loader], so that bindings can be exercised without a
// native build of the library.
package fakelib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/DataDog/go-dlbind/internal/bindings"
	"github.com/ebitengine/purego"
	jsoniter "github.com/json-iterator/go"
)

// DefaultName is the file name the fake library answers to.
const DefaultName = "example.so"

// Loader serves the fake library for the file name Name (DefaultName when
// empty). Any other name fails to open, like a missing file would.
type Loader struct {
	Name string
	// Hidden lists exports that lookups pretend not to find.
	Hidden []string

	opens  atomic.Int32
	closes atomic.Int32
}

func (l *Loader) name() string {
	if l.Name == "" {
		return DefaultName
	}
	return l.Name
}

func (l *Loader) Open(path string, _ int) (uintptr, error) {
	if filepath.Base(path) != l.name() {
		return 0, fmt.Errorf("%s: cannot open shared object file: No such file or directory", path)
	}
	return uintptr(l.opens.Add(1)), nil
}

func (l *Loader) Lookup(_ uintptr, name string) (uintptr, error) {
	if slices.Contains(l.Hidden, name) {
		return 0, fmt.Errorf("%s: undefined symbol: %s", l.name(), name)
	}
	addr, ok := exports()[name]
	if !ok {
		return 0, fmt.Errorf("%s: undefined symbol: %s", l.name(), name)
	}
	return addr, nil
}

func (l *Loader) Close(uintptr) error {
	l.closes.Add(1)
	return nil
}

// Opens returns how many times the library was opened.
func (l *Loader) Opens() int { return int(l.opens.Load()) }

// Closes returns how many times the library was closed.
func (l *Loader) Closes() int { return int(l.closes.Load()) }

var (
	// Stdout receives what shout_it prints.
	Stdout io.Writer = os.Stdout

	frees  atomic.Int64
	calls  atomic.Int64
	pinned struct {
		sync.Mutex
		strings map[string][]byte
	}
)

// Frees returns how many strings were released through example_free.
func Frees() int64 { return frees.Load() }

// exports are created once: purego callbacks are never freed.
var exports = sync.OnceValue(func() map[string]uintptr {
	return map[string]uintptr{
		"factorial":       purego.NewCallback(factorial),
		"greet":           purego.NewCallback(greet),
		"repeat_string":   purego.NewCallback(repeatString),
		"shout_it":        purego.NewCallback(shoutIt),
		"maybe":           purego.NewCallback(maybe),
		"sort_json_array": purego.NewCallback(sortJSONArray),
		"example_free":    purego.NewCallback(exampleFree),
		"null_string":     purego.NewCallback(nullString),
		"latin1_string":   purego.NewCallback(latin1String),
	}
})

var libc = sync.OnceValues(bindings.NewLibc)

func factorial(n int64) int64 {
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result
}

func greet(name uintptr) uintptr {
	return borrowed(fmt.Sprintf("Hello, %s!", goString(name)))
}

func repeatString(str uintptr, n int64) uintptr {
	return borrowed(strings.Repeat(goString(str), int(max(n, 0))))
}

func shoutIt(msg uintptr) {
	fmt.Fprintln(Stdout, strings.ToUpper(goString(msg))+"!")
}

// maybe alternates, starting with true.
func maybe() int {
	if calls.Add(1)%2 == 1 {
		return 1
	}
	return 0
}

// sortJSONArray returns a string allocated with malloc, or NULL when the input
// is not an array of numbers.
func sortJSONArray(input uintptr) uintptr {
	var numbers []int64
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(goString(input), &numbers); err != nil {
		return 0
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(numbers)
	if err != nil {
		return 0
	}
	return owned(out)
}

func exampleFree(ptr uintptr) {
	frees.Add(1)
	if lc, err := libc(); err == nil {
		lc.Free(ptr)
	}
}

func nullString(uintptr) uintptr {
	return 0
}

func latin1String(uintptr) uintptr {
	return borrowed("caf\xe9")
}

func goString(ptr uintptr) string {
	str, _ := bindings.GoString(ptr)
	return str
}

// borrowed returns a C string that stays valid for the life of the process.
func borrowed(str string) uintptr {
	pinned.Lock()
	defer pinned.Unlock()
	if pinned.strings == nil {
		pinned.strings = make(map[string][]byte)
	}
	cstr, ok := pinned.strings[str]
	if !ok {
		cstr = append([]byte(str), 0)
		pinned.strings[str] = cstr
	}
	return bindings.SliceAddr(cstr)
}

// owned returns a C string the caller must free.
func owned(str string) uintptr {
	lc, err := libc()
	if err != nil {
		return 0
	}
	ptr := lc.Malloc(uint64(len(str) + 1))
	if ptr == 0 {
		return 0
	}
	buf := unsafe.Slice((*byte)(*(*unsafe.Pointer)(unsafe.Pointer(&ptr))), len(str)+1)
	copy(buf, str)
	buf[len(str)] = 0
	return ptr
}
