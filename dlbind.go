// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package dlbind loads native shared libraries at runtime and calls their C-ABI
// exports through typed wrappers, without cgo.
//
// A [Library] is opened once with [Open], symbols are resolved once with
// [Library.Resolve] or [Bind], and the library is released with
// [Library.Close]:
//
//	lib, err := dlbind.Open("example.so")
//	if err != nil {
//		return err
//	}
//	defer lib.Close()
//
//	sym, err := lib.Resolve("factorial", dlbind.Sig(dlbind.Int64, dlbind.Int64))
//	if err != nil {
//		return err
//	}
//	factorial, err := dlbind.NewInt64Func(sym)
//	...
//	n, err := factorial.Call(10)
//
// The signature given to Resolve is trusted: nothing can check it against the
// real export, and a wrong one is undefined behavior at call time.
package dlbind

import (
	"errors"

	"github.com/DataDog/go-dlbind/internal/support"
)

// SupportsTarget returns true and a nil error when the current target can load
// shared libraries. Otherwise it returns false and the reasons why.
func SupportsTarget() (bool, error) {
	err := errors.Join(support.SupportErrors(), support.ManuallyDisabledError())
	return err == nil, err
}
