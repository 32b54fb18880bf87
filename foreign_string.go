// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/DataDog/go-dlbind/internal/bindings"
)

// Ownership tells who releases a string returned by a library. It is part of
// each export's documented contract and is never inferred.
type Ownership uint8

const (
	// OwnershipUnspecified is rejected when binding a string-returning symbol.
	OwnershipUnspecified Ownership = iota
	// Borrowed strings belong to the library: the host only reads them and
	// never frees them.
	Borrowed
	// Owned strings are handed over to the host, which releases them exactly
	// once through the library's deallocator.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return "unspecified"
	}
}

// ParseOwnership parses "borrowed" or "owned", case-insensitively.
func ParseOwnership(s string) (Ownership, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "borrowed":
		return Borrowed, nil
	case "owned":
		return Owned, nil
	default:
		return OwnershipUnspecified, fmt.Errorf("%w: %q is neither \"borrowed\" nor \"owned\"", dlerrors.ErrOwnershipUnspecified, s)
	}
}

// ForeignString is a NUL-terminated string returned by a library, tagged with
// its [Ownership]. Its content is only copied into Go memory by
// [ForeignString.Text].
type ForeignString struct {
	ptr       uintptr
	symbol    string
	ownership Ownership
	lib       *Library
	released  atomic.Bool
}

func (lib *Library) foreignString(symbol string, ptr uintptr, ownership Ownership) *ForeignString {
	return &ForeignString{ptr: ptr, symbol: symbol, ownership: ownership, lib: lib}
}

func (s *ForeignString) Ownership() Ownership {
	return s.ownership
}

// IsNull reports whether the library returned a NULL pointer.
func (s *ForeignString) IsNull() bool {
	return s.ptr == 0
}

// Text copies the string into Go memory. It fails with a
// [*dlerrors.EncodingError] when the pointer is NULL, when no terminator is
// found, or when the bytes are not valid UTF-8.
func (s *ForeignString) Text() (string, error) {
	if s.released.Load() {
		return "", s.encodingError(dlerrors.ErrStringReleased)
	}
	if s.ptr == 0 {
		return "", s.encodingError(dlerrors.ErrNullString)
	}

	str, ok := bindings.GoString(s.ptr)
	if !ok {
		return "", s.encodingError(dlerrors.ErrUnterminatedString)
	}
	if !utf8.ValidString(str) {
		return "", s.encodingError(dlerrors.ErrInvalidUTF8)
	}
	return str, nil
}

// Release frees an [Owned] string. It is a no-op for [Borrowed] and NULL
// strings, and on every call but the first.
func (s *ForeignString) Release() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}
	if s.ownership != Owned || s.ptr == 0 {
		return nil
	}
	return s.lib.deallocate(s.symbol, s.ptr)
}

func (s *ForeignString) encodingError(err error) error {
	return &dlerrors.EncodingError{Symbol: s.symbol, Value: "return value", Err: err}
}
