// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package bindings

import "fmt"

// Libc holds the C allocator entrypoints of the process. It is used to release
// strings a library hands over to its caller.
type Libc struct {
	malloc uintptr
	free   uintptr
}

func newLibc(handle uintptr) (*Libc, error) {
	var libc Libc
	for _, sym := range []struct {
		name string
		dst  *uintptr
	}{
		{"malloc", &libc.malloc},
		{"free", &libc.free},
	} {
		ptr, err := Dlsym(handle, sym.name)
		if err != nil {
			return nil, fmt.Errorf("reading libc symbol %q: %w", sym.name, err)
		}
		*sym.dst = ptr
	}
	return &libc, nil
}

// Malloc allocates size bytes of C memory. The result must be released with
// [Libc.Free].
func (libc *Libc) Malloc(size uint64) uintptr {
	return SyscallN(libc.malloc, uintptr(size))
}

// Free releases memory obtained from the C allocator. A zero pointer is a no-op.
func (libc *Libc) Free(ptr uintptr) {
	if ptr == 0 {
		return
	}
	SyscallN(libc.free, ptr)
}

// FreeAddr returns the address of free(3), suitable as a deallocator for
// strings returned by libraries linked against the same C runtime.
func (libc *Libc) FreeAddr() uintptr {
	return libc.free
}
