// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/go-dlbind/dlerrors"
)

var update = flag.Bool("update", false, "update tests")

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		name: Main,
	}))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	p := testscript.Params{
		Dir:           filepath.Join("testdata"),
		UpdateScripts: *update,
	}
	testscript.Run(t, p)
}

func TestExitCode(t *testing.T) {
	for expected, err := range map[int]error{
		exitFailure:  errors.New("bad flag"),
		exitLoad:     step("open", &dlerrors.LoadError{Library: "example.so", Err: errors.New("no such file")}),
		exitSymbol:   step("bind", &dlerrors.SymbolNotFoundError{Library: "example.so", Symbol: "mabye"}),
		exitEncoding: step("greet", &dlerrors.EncodingError{Symbol: "greet", Value: "return value", Err: dlerrors.ErrInvalidUTF8}),
	} {
		require.Equal(t, expected, exitCode(err), "%v", err)
	}
	require.Equal(t, exitFailure, exitCode(fmt.Errorf("bind: %w", dlerrors.ErrOwnershipUnspecified)))
}

func TestMissingLibrary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{name, "--library", filepath.Join(t.TempDir(), "missing.so")}, &stdout, &stderr)
	require.Equal(t, exitLoad, code)
	require.Empty(t, stdout.String())
	require.Contains(t, stderr.String(), name+": open: cannot load library")
}
