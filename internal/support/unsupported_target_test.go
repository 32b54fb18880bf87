// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build !(((linux || darwin) && (amd64 || arm64)) || (windows && (amd64 || arm64)))

package support

import (
	"runtime"
	"testing"

	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedTarget(t *testing.T) {
	err := SupportErrors()
	require.Error(t, err)
	require.ErrorAs(t, err, &dlerrors.UnsupportedTargetError{})
	require.ErrorContains(t, err, runtime.GOARCH)
}
