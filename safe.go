// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"fmt"

	"github.com/pkg/errors"
)

// PanicError wraps a Go panic recovered while marshalling a foreign call, such
// as purego refusing a call with more than 15 arguments, or a call made on a
// target without dynamic loading support. Crashes inside the library itself are
// signals and cannot be recovered. The caller should close the library after
// such an error.
type PanicError struct {
	// The operation during which the panic happened, usually a symbol name.
	Op string
	// The recovered panic value.
	Err error
}

func newPanicError(op string, err error) *PanicError {
	return &PanicError{
		Op:  op,
		Err: err,
	}
}

// Unwrap the error and return it.
// Required by errors.Is and errors.As functions.
func (e *PanicError) Unwrap() error {
	return e.Err
}

// Error returns the error string representation.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while calling %s: %#+v", e.Op, e.Err)
}

// tryCall calls function `f` and recovers from any panic occurring while it
// executes, returning it in a `PanicError` object type.
func tryCall(op string, f func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			// Note that panic(nil) matches this case and cannot be really tested for.
			return
		}

		switch actual := r.(type) {
		case error:
			err = errors.WithStack(actual)
		case string:
			err = errors.New(actual)
		default:
			err = errors.Errorf("%v", r)
		}

		err = newPanicError(op, err)
	}()
	return f()
}
