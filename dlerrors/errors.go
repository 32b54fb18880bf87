// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Lifetime and binding errors
var (
	ErrLibraryClosed        = errors.New("library was closed")
	ErrOwnershipUnspecified = errors.New("string ownership unspecified")
	ErrUnbound              = errors.New("function is not bound to a symbol")
)

// Encoding errors, wrapped by [EncodingError].
var (
	ErrEmbeddedNUL        = errors.New("string contains an embedded NUL byte")
	ErrInvalidUTF8        = errors.New("string is not valid UTF-8")
	ErrNullString         = errors.New("null string pointer")
	ErrUnterminatedString = errors.New("no NUL terminator found")
	ErrStringReleased     = errors.New("string was already released")
)

// LoadError is returned when a shared library could not be found or mapped
// into the process: missing file, wrong architecture, unsatisfied link-time
// dependency or a failing load-time initializer.
type LoadError struct {
	// Library is the logical name the caller asked for.
	Library string
	// Attempts lists every name or path handed to the platform loader.
	Attempts []string
	Err      error
}

func (e *LoadError) Error() string {
	if len(e.Attempts) > 1 {
		return fmt.Sprintf("cannot load library %q (tried %s): %v", e.Library, strings.Join(e.Attempts, ", "), e.Err)
	}
	return fmt.Sprintf("cannot load library %q: %v", e.Library, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SymbolNotFoundError is returned when a loaded library has no export with the
// requested name.
type SymbolNotFoundError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *SymbolNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("symbol %q not found in library %q", e.Symbol, e.Library)
	}
	return fmt.Sprintf("symbol %q not found in library %q: %v", e.Symbol, e.Library, e.Err)
}

func (e *SymbolNotFoundError) Unwrap() error {
	return e.Err
}

// EncodingError is returned when a host string cannot be represented as a
// NUL-terminated byte sequence, or when a string returned by the library cannot
// be decoded as UTF-8 text.
type EncodingError struct {
	Symbol string
	// Value names the value that failed, e.g. "argument 1" or "return value".
	Value string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s of %s: %v", e.Value, e.Symbol, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// SignatureMismatchError is returned when a symbol is used with a signature
// other than the one it was resolved with. The check is host-side only: the
// actual export's signature is never known.
type SignatureMismatchError struct {
	Symbol   string
	Declared string
	Expected string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("symbol %q was resolved as %s but is used as %s", e.Symbol, e.Declared, e.Expected)
}

// UnsupportedTargetError is returned when the current OS or architecture cannot
// load shared libraries with this package.
type UnsupportedTargetError struct {
	Err error
}

func (e UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported target: %v", e.Err)
}

func (e UnsupportedTargetError) Unwrap() error {
	return e.Err
}

// DisabledError is returned when the package was built with the
// `dlbind.disabled` build tag.
type DisabledError struct {
	Err error
}

func (e DisabledError) Error() string {
	return fmt.Sprintf("dynamic loading disabled: %v", e.Err)
}

func (e DisabledError) Unwrap() error {
	return e.Err
}
