// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (((linux || darwin) && (amd64 || arm64)) || (windows && (amd64 || arm64))) && !dlbind.disabled

package bindings

import (
	"fmt"
	"strings"

	"github.com/DataDog/go-dlbind/internal/log"
	"github.com/ebitengine/purego"
)

// SyscallN is the only way to make C calls with this package.
// purego implementation limits the number of arguments to 15, it will panic if more are provided
// Note: `purego.SyscallN` has 3 return values: these are the following:
//
//	1st - The return value is a pointer or a int of any type
//	2nd - The return value is a float
//	3rd - The value of `errno` at the end of the call
func SyscallN(fn uintptr, args ...uintptr) uintptr {
	if !log.Enabled(log.LevelTrace) {
		ret, _, _ := purego.SyscallN(fn, args...)
		return ret
	}

	var argsStr strings.Builder
	for _, arg := range args {
		fmt.Fprintf(&argsStr, ", 0x%x", arg)
	}
	log.Tracef("SyscallN(0x%x%s)", fn, argsStr.String())
	ret, f, e := purego.SyscallN(fn, args...)
	log.Tracef("SyscallN(0x%x%s) = 0x%x, 0x%x, 0x%x", fn, argsStr.String(), ret, f, e)
	return ret
}
