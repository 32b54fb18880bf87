// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"errors"
	"fmt"

	"github.com/DataDog/go-dlbind/dlerrors"
)

// Typed wrappers are the only places a symbol address gets cast to a calling
// convention. Each one checks the symbol was resolved with its signature.
var (
	int64FuncSig       = Sig(Int64, Int64)
	stringFuncSig      = Sig(CString, CString)
	stringInt64FuncSig = Sig(CString, CString, Int64)
	voidStringFuncSig  = Sig(Void, CString)
	boolFuncSig        = Sig(Bool32)
)

// Int64Func calls an `int64_t f(int64_t)` export.
type Int64Func struct {
	sym *Symbol
}

func NewInt64Func(sym *Symbol) (Int64Func, error) {
	if err := sym.expect(int64FuncSig); err != nil {
		return Int64Func{}, err
	}
	return Int64Func{sym: sym}, nil
}

func (f Int64Func) Call(n int64) (int64, error) {
	if f.sym == nil {
		return 0, dlerrors.ErrUnbound
	}
	ret, err := f.sym.call(uintptr(n))
	return int64(ret), err
}

func (f *Int64Func) bind(lib *Library, name string, _ Ownership) (err error) {
	sym, err := lib.Resolve(name, int64FuncSig)
	if err != nil {
		return err
	}
	*f, err = NewInt64Func(sym)
	return err
}

// StringFunc calls a `char* f(char*)` export whose result has the given
// [Ownership].
type StringFunc struct {
	sym       *Symbol
	ownership Ownership
}

func NewStringFunc(sym *Symbol, ownership Ownership) (StringFunc, error) {
	if err := sym.expect(stringFuncSig); err != nil {
		return StringFunc{}, err
	}
	if err := checkOwnership(sym.name, ownership); err != nil {
		return StringFunc{}, err
	}
	return StringFunc{sym: sym, ownership: ownership}, nil
}

// CallForeign returns the result without copying it. The caller must call
// [ForeignString.Release] once done with it.
func (f StringFunc) CallForeign(str string) (*ForeignString, error) {
	if f.sym == nil {
		return nil, dlerrors.ErrUnbound
	}
	ret, err := f.sym.callString(str)
	if err != nil {
		return nil, err
	}
	return f.sym.lib.foreignString(f.sym.name, ret, f.ownership), nil
}

// Call returns a copy of the result, released according to its ownership.
func (f StringFunc) Call(str string) (string, error) {
	return text(f.CallForeign(str))
}

func (f *StringFunc) bind(lib *Library, name string, ownership Ownership) (err error) {
	sym, err := lib.Resolve(name, stringFuncSig)
	if err != nil {
		return err
	}
	*f, err = NewStringFunc(sym, ownership)
	return err
}

// StringInt64Func calls a `char* f(char*, int64_t)` export whose result has the
// given [Ownership].
type StringInt64Func struct {
	sym       *Symbol
	ownership Ownership
}

func NewStringInt64Func(sym *Symbol, ownership Ownership) (StringInt64Func, error) {
	if err := sym.expect(stringInt64FuncSig); err != nil {
		return StringInt64Func{}, err
	}
	if err := checkOwnership(sym.name, ownership); err != nil {
		return StringInt64Func{}, err
	}
	return StringInt64Func{sym: sym, ownership: ownership}, nil
}

// CallForeign returns the result without copying it. The caller must call
// [ForeignString.Release] once done with it.
func (f StringInt64Func) CallForeign(str string, n int64) (*ForeignString, error) {
	if f.sym == nil {
		return nil, dlerrors.ErrUnbound
	}
	ret, err := f.sym.callString(str, uintptr(n))
	if err != nil {
		return nil, err
	}
	return f.sym.lib.foreignString(f.sym.name, ret, f.ownership), nil
}

func (f StringInt64Func) Call(str string, n int64) (string, error) {
	return text(f.CallForeign(str, n))
}

func (f *StringInt64Func) bind(lib *Library, name string, ownership Ownership) (err error) {
	sym, err := lib.Resolve(name, stringInt64FuncSig)
	if err != nil {
		return err
	}
	*f, err = NewStringInt64Func(sym, ownership)
	return err
}

// VoidStringFunc calls a `void f(char*)` export, called for its side effects.
type VoidStringFunc struct {
	sym *Symbol
}

func NewVoidStringFunc(sym *Symbol) (VoidStringFunc, error) {
	if err := sym.expect(voidStringFuncSig); err != nil {
		return VoidStringFunc{}, err
	}
	return VoidStringFunc{sym: sym}, nil
}

// Call returns nil when the export returned normally: there is no result.
func (f VoidStringFunc) Call(str string) error {
	if f.sym == nil {
		return dlerrors.ErrUnbound
	}
	_, err := f.sym.callString(str)
	return err
}

func (f *VoidStringFunc) bind(lib *Library, name string, _ Ownership) (err error) {
	sym, err := lib.Resolve(name, voidStringFuncSig)
	if err != nil {
		return err
	}
	*f, err = NewVoidStringFunc(sym)
	return err
}

// BoolFunc calls an `int f(void)` export returning a boolean as an int.
type BoolFunc struct {
	sym *Symbol
}

func NewBoolFunc(sym *Symbol) (BoolFunc, error) {
	if err := sym.expect(boolFuncSig); err != nil {
		return BoolFunc{}, err
	}
	return BoolFunc{sym: sym}, nil
}

func (f BoolFunc) Call() (bool, error) {
	if f.sym == nil {
		return false, dlerrors.ErrUnbound
	}
	ret, err := f.sym.call()
	// Only the low 32 bits of the return register are defined for an int.
	return int32(ret) != 0, err
}

func (f *BoolFunc) bind(lib *Library, name string, _ Ownership) (err error) {
	sym, err := lib.Resolve(name, boolFuncSig)
	if err != nil {
		return err
	}
	*f, err = NewBoolFunc(sym)
	return err
}

func checkOwnership(symbol string, ownership Ownership) error {
	if ownership != Borrowed && ownership != Owned {
		return fmt.Errorf("binding %s: %w", symbol, dlerrors.ErrOwnershipUnspecified)
	}
	return nil
}

// text decodes and releases a foreign string.
func text(str *ForeignString, err error) (string, error) {
	if err != nil {
		return "", err
	}
	s, err := str.Text()
	if releaseErr := str.Release(); releaseErr != nil {
		err = errors.Join(err, releaseErr)
	}
	if err != nil {
		return "", err
	}
	return s, nil
}
