// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package bindings

import (
	"strings"
	"unsafe"
)

// MaxStringLength bounds the scan for the NUL terminator of a C string. A
// longer string most likely means the pointer is not a C string at all.
const MaxStringLength = 1 << 24

// GoString copies a char* to a Go string. The second return value is false when
// no NUL terminator was found within [MaxStringLength] bytes.
func GoString(c uintptr) (string, bool) {
	// We take the address and then dereference it to trick go vet from creating a possible misuse of unsafe.Pointer
	ptr := *(*unsafe.Pointer)(unsafe.Pointer(&c))
	if ptr == nil {
		return "", true
	}
	var length int
	for *(*byte)(unsafe.Add(ptr, uintptr(length))) != 0 {
		length++
		if length >= MaxStringLength {
			return "", false
		}
	}
	//string builtin copies the slice
	return string(unsafe.Slice((*byte)(ptr), length)), true
}

// CString allocates a NUL-terminated copy of str in Go memory. It returns nil
// when str contains a NUL byte, since C would silently truncate it. The caller
// must keep the returned slice alive, and pinned when C keeps the pointer, for
// as long as C may read it.
func CString(str string) []byte {
	if strings.IndexByte(str, 0) >= 0 {
		return nil
	}
	cstr := make([]byte, len(str)+1)
	copy(cstr, str)
	return cstr
}

// SliceAddr returns the address of the first element of b, or 0 if b is empty.
func SliceAddr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
