// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows && (amd64 || arm64) && !dlbind.disabled

package bindings

import "fmt"

// NewLibc loads the allocator symbols from msvcrt.dll. Libraries built against
// another C runtime must provide their own deallocator.
func NewLibc() (*Libc, error) {
	handle, err := Dlopen("msvcrt.dll", 0)
	if err != nil {
		return nil, fmt.Errorf("loading msvcrt.dll: %w", err)
	}
	return newLibc(handle)
}
