// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package example binds the exports of the demo library, `example.so`.
package example

import (
	"errors"

	"github.com/DataDog/go-dlbind"
	"github.com/DataDog/go-dlbind/dlerrors"
	jsoniter "github.com/json-iterator/go"
)

// DefaultName is the file name the demo library is built to.
const DefaultName = "example.so"

// Library holds one typed wrapper per export, bound once by [Open].
type Library struct {
	Factorial     dlbind.Int64Func       `dlsym:"factorial"`
	Greet         dlbind.StringFunc      `dlsym:"greet"`
	RepeatString  dlbind.StringInt64Func `dlsym:"repeat_string"`
	ShoutIt       dlbind.VoidStringFunc  `dlsym:"shout_it"`
	Maybe         dlbind.BoolFunc        `dlsym:"maybe"`
	SortJSONArray dlbind.StringFunc      `dlsym:"sort_json_array"`

	lib *dlbind.Library
}

// Open loads the library name and binds every export. ownership gives the
// [dlbind.Ownership] of the strings returned by greet, repeat_string and
// sort_json_array; binding fails for any of them left out.
func Open(name string, ownership map[string]dlbind.Ownership, opts ...dlbind.Option) (*Library, error) {
	lib, err := dlbind.Open(name, opts...)
	if err != nil {
		return nil, err
	}

	l := &Library{lib: lib}
	if err := dlbind.Bind(lib, l, dlbind.WithOwnerships(ownership)); err != nil {
		return nil, errors.Join(err, lib.Close())
	}
	return l, nil
}

// Handle returns the underlying library.
func (l *Library) Handle() *dlbind.Library {
	return l.lib
}

func (l *Library) Close() error {
	return l.lib.Close()
}

// SortInts sorts numbers through sort_json_array, exchanging them as a JSON
// array.
func (l *Library) SortInts(numbers []int64) ([]int64, error) {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(numbers)
	if err != nil {
		return nil, err
	}

	sorted, err := l.SortJSONArray.Call(payload)
	if err != nil {
		return nil, err
	}

	var out []int64
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(sorted, &out); err != nil {
		return nil, &dlerrors.EncodingError{Symbol: "sort_json_array", Value: "return value", Err: err}
	}
	return out, nil
}
