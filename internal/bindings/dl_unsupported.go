// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Build when the target OS or architecture are not supported
//go:build !(((linux || darwin) && (amd64 || arm64)) || (windows && (amd64 || arm64))) || dlbind.disabled

package bindings

import (
	"errors"
	"fmt"
	"runtime"
)

const (
	RTLD_NOW    = 0
	RTLD_LAZY   = 0
	RTLD_GLOBAL = 0
	RTLD_LOCAL  = 0
)

const DefaultHandle = 0

var errUnsupported = fmt.Errorf("dynamic loading is not available on %s/%s", runtime.GOOS, runtime.GOARCH)

func Dlopen(string, int) (uintptr, error) {
	return 0, errUnsupported
}

func Dlsym(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}

func Dlclose(uintptr) error {
	return errUnsupported
}

func SyscallN(uintptr, ...uintptr) uintptr {
	panic(errors.New("SyscallN called on a target without dynamic loading support"))
}

func NewLibc() (*Libc, error) {
	return nil, errUnsupported
}
