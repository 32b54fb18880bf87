// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Purego only works on linux/macOS with amd64 and arm64 from now
//go:build (linux || darwin) && (amd64 || arm64) && !dlbind.disabled

package bindings

import (
	"github.com/DataDog/go-dlbind/internal/log"
	"github.com/ebitengine/purego"
)

const (
	RTLD_NOW    = purego.RTLD_NOW
	RTLD_LAZY   = purego.RTLD_LAZY
	RTLD_GLOBAL = purego.RTLD_GLOBAL
	RTLD_LOCAL  = purego.RTLD_LOCAL
)

// DefaultHandle is a pseudo-handle searching symbols from any library already
// loaded in the process.
const DefaultHandle = purego.RTLD_DEFAULT

// Dlopen maps the shared object at path into the process. The path is handed
// as-is to dlopen(3), which applies the platform search rules when it has no
// slash.
func Dlopen(path string, flags int) (uintptr, error) {
	log.Tracef("Dlopen(%q, 0x%x)", path, flags)
	handle, err := purego.Dlopen(path, flags)
	log.Tracef("Dlopen(%q, 0x%x) = 0x%x, %v", path, flags, handle, err)
	return handle, err
}

// Dlsym resolves the exported symbol name. The error carries the dlerror()
// message when the symbol does not exist.
func Dlsym(handle uintptr, name string) (uintptr, error) {
	log.Tracef("Dlsym(0x%x, %q)", handle, name)
	ptr, err := purego.Dlsym(handle, name)
	log.Tracef("Dlsym(0x%x, %q) = 0x%x, %v", handle, name, ptr, err)
	return ptr, err
}

func Dlclose(handle uintptr) error {
	log.Tracef("Dlclose(0x%x)", handle)
	err := purego.Dlclose(handle)
	log.Tracef("Dlclose(0x%x) = %v", handle, err)
	return err
}
