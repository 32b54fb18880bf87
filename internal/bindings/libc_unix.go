// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (linux || darwin) && (amd64 || arm64) && !dlbind.disabled

package bindings

// NewLibc reads the allocator symbols from the libraries already loaded in the
// process.
func NewLibc() (*Libc, error) {
	// RTLD_DEFAULT is a pseudo-handle to search symbols from any already loaded library
	return newLibc(DefaultHandle)
}
