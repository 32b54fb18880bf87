// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/DataDog/go-dlbind/internal/bindings"
)

// Loader is the dynamic loader a [Library] is opened with. The default one
// wraps dlopen(3) and friends, or their windows equivalents. Handles are opaque
// to this package.
type Loader interface {
	// Open maps the library at path, or resolves path through the platform
	// search rules when it has no directory component.
	Open(path string, flags int) (uintptr, error)
	// Lookup returns the address of the exported symbol name.
	Lookup(handle uintptr, name string) (uintptr, error)
	// Close unmaps the library. It is called exactly once per handle.
	Close(handle uintptr) error
}

type dlLoader struct{}

var errNullHandle = errors.New("loader returned a null handle")

func (dlLoader) Open(path string, flags int) (uintptr, error) {
	handle, err := bindings.Dlopen(path, flags)
	if err == nil && handle == 0 {
		err = errNullHandle
	}
	return handle, err
}

func (dlLoader) Lookup(handle uintptr, name string) (uintptr, error) {
	return bindings.Dlsym(handle, name)
}

func (dlLoader) Close(handle uintptr) error {
	return bindings.Dlclose(handle)
}

// candidateNames returns the file names a logical library name may stand for
// on goos, in the order they are tried.
func candidateNames(name, goos string) []string {
	if filepath.Ext(name) != "" || strings.ContainsAny(name, `/\`) {
		return []string{name}
	}

	switch goos {
	case "darwin":
		return []string{name, "lib" + name + ".dylib", name + ".dylib"}
	case "windows":
		return []string{name + ".dll", name}
	default:
		return []string{name, "lib" + name + ".so", name + ".so"}
	}
}

// candidatePaths expands name into the list of paths handed to the loader:
// existing files under the search directories first, then the bare names so
// the platform search mechanism gets the last word.
func candidatePaths(name string, searchPaths []string, goos string) []string {
	names := candidateNames(name, goos)
	if strings.ContainsAny(name, `/\`) {
		return names
	}

	paths := make([]string, 0, len(names)*(len(searchPaths)+1))
	seen := make(map[string]struct{}, cap(paths))
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		for _, n := range names {
			path := filepath.Join(dir, n)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				add(path)
			}
		}
	}

	for _, n := range names {
		add(n)
	}
	return paths
}
