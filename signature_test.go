// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	for expected, sig := range map[string]Signature{
		"int64_t(int64_t)":      Sig(Int64, Int64),
		"char*(char*, int64_t)": Sig(CString, CString, Int64),
		"void(char*)":           Sig(Void, CString),
		"int(void)":             Sig(Bool32),
		"int32_t(kind(42))":     Sig(Int32, Kind(42)),
	} {
		require.Equal(t, expected, sig.String())
	}

	require.True(t, Sig(CString, CString).Equal(Signature{Return: CString, Args: []Kind{CString}}))
	require.True(t, Sig(Bool32).Equal(Signature{Return: Bool32}))
	require.False(t, Sig(Int64, Int64).Equal(Sig(Int32, Int64)))
	require.False(t, Sig(CString, CString).Equal(Sig(CString, CString, Int64)))
}

func TestOwnership(t *testing.T) {
	for input, expected := range map[string]Ownership{
		"borrowed": Borrowed,
		" Owned ":  Owned,
		"BORROWED": Borrowed,
		"":         OwnershipUnspecified,
		"caller":   OwnershipUnspecified,
	} {
		ownership, err := ParseOwnership(input)
		require.Equal(t, expected, ownership, input)
		require.Equal(t, expected == OwnershipUnspecified, err != nil, input)
	}
	require.Equal(t, "unspecified", OwnershipUnspecified.String())
	require.Equal(t, "owned", Owned.String())
}
