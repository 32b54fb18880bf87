// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is a C primitive type crossing the foreign boundary.
type Kind uint8

const (
	Void Kind = iota
	// Int32 is a C int32_t.
	Int32
	// Int64 is a C int64_t / long long.
	Int64
	// Bool32 is a C int used as a boolean: nonzero means true.
	Bool32
	// CString is a NUL-terminated char*.
	CString
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Int32:
		return "int32_t"
	case Int64:
		return "int64_t"
	case Bool32:
		return "int"
	case CString:
		return "char*"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Signature is the calling convention a symbol is assumed to follow.
type Signature struct {
	Return Kind
	Args   []Kind
}

// Sig builds a Signature returning ret and taking args.
func Sig(ret Kind, args ...Kind) Signature {
	return Signature{Return: ret, Args: args}
}

// Equal reports whether both signatures describe the same calling convention.
func (s Signature) Equal(other Signature) bool {
	return s.Return == other.Return && slices.Equal(s.Args, other.Args)
}

// String renders the signature the way a C prototype would, e.g.
// `char*(char*, int64_t)`.
func (s Signature) String() string {
	args := make([]string, len(s.Args))
	for i, arg := range s.Args {
		args[i] = arg.String()
	}
	if len(args) == 0 {
		args = append(args, "void")
	}
	return fmt.Sprintf("%s(%s)", s.Return, strings.Join(args, ", "))
}
