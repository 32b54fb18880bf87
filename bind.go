// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// binder is implemented by the pointers to the typed wrappers.
type binder interface {
	bind(lib *Library, name string, ownership Ownership) error
}

// BindOption configures [Bind].
type BindOption func(map[string]Ownership)

// WithOwnership sets the ownership of the string returned by symbol,
// overriding the one given in the struct tag.
func WithOwnership(symbol string, ownership Ownership) BindOption {
	return func(m map[string]Ownership) {
		m[symbol] = ownership
	}
}

// WithOwnerships is [WithOwnership] for several symbols at once.
func WithOwnerships(ownerships map[string]Ownership) BindOption {
	return func(m map[string]Ownership) {
		for symbol, ownership := range ownerships {
			m[symbol] = ownership
		}
	}
}

// Bind resolves every field of the struct pointed to by target that has a tag
// in the form of `dlsym:"<symbol_name>"` or `dlsym:"<symbol_name>,owned"`
// (resp. `borrowed`). Tagged fields must be exported and of one of the typed
// wrapper types, such as [Int64Func] or [StringFunc]. Binding stops at the
// first failure, which is returned as-is.
//
//	var lib struct {
//		Factorial dlbind.Int64Func  `dlsym:"factorial"`
//		Greet     dlbind.StringFunc `dlsym:"greet,borrowed"`
//	}
//	err := dlbind.Bind(l, &lib)
func Bind(lib *Library, target any, opts ...BindOption) error {
	ownerships := make(map[string]Ownership)
	for _, opt := range opts {
		opt(ownerships)
	}

	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a non-nil pointer to a struct, got %T", target)
	}

	value = value.Elem()
	typ := value.Type()
	bound := 0
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("dlsym")
		if !ok {
			continue
		}

		name, ownership, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		if override, ok := ownerships[name]; ok {
			ownership = override
		}

		if !field.IsExported() {
			return fmt.Errorf("field %s bound to %q is not exported", field.Name, name)
		}
		b, ok := value.Field(i).Addr().Interface().(binder)
		if !ok {
			return fmt.Errorf("field %s bound to %q has type %s which is not a function wrapper", field.Name, name, field.Type)
		}
		if err := b.bind(lib, name, ownership); err != nil {
			return err
		}
		bound++
	}

	if bound == 0 {
		return errors.New("could not find any field tagged `dlsym`, cowardly refusing to bind nothing")
	}
	return nil
}

func parseTag(tag string) (string, Ownership, error) {
	name, opt, hasOpt := strings.Cut(tag, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", OwnershipUnspecified, errors.New("empty symbol name in dlsym tag")
	}
	if !hasOpt {
		return name, OwnershipUnspecified, nil
	}
	ownership, err := ParseOwnership(opt)
	if err != nil {
		return "", OwnershipUnspecified, err
	}
	return name, ownership, nil
}
