// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// 32-bit targets are left out: int64_t arguments and results span two words there
//go:build windows && (amd64 || arm64) && !dlbind.disabled

package bindings

import (
	"github.com/DataDog/go-dlbind/internal/log"
	"golang.org/x/sys/windows"
)

// LoadLibrary takes no flags: these only exist to share call sites with unix.
const (
	RTLD_NOW    = 0
	RTLD_LAZY   = 0
	RTLD_GLOBAL = 0
	RTLD_LOCAL  = 0
)

// DefaultHandle has no windows equivalent; [NewLibc] loads the C runtime
// explicitly instead.
const DefaultHandle = 0

func Dlopen(path string, _ int) (uintptr, error) {
	log.Tracef("LoadLibrary(%q)", path)
	handle, err := windows.LoadLibrary(path)
	log.Tracef("LoadLibrary(%q) = 0x%x, %v", path, handle, err)
	return uintptr(handle), err
}

func Dlsym(handle uintptr, name string) (uintptr, error) {
	log.Tracef("GetProcAddress(0x%x, %q)", handle, name)
	proc, err := windows.GetProcAddress(windows.Handle(handle), name)
	log.Tracef("GetProcAddress(0x%x, %q) = 0x%x, %v", handle, name, proc, err)
	return proc, err
}

func Dlclose(handle uintptr) error {
	log.Tracef("FreeLibrary(0x%x)", handle)
	err := windows.FreeLibrary(windows.Handle(handle))
	log.Tracef("FreeLibrary(0x%x) = %v", handle, err)
	return err
}
