// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Manually set dlbind.disabled build tag
//go:build dlbind.disabled

package support

import (
	"errors"

	"github.com/DataDog/go-dlbind/dlerrors"
)

func init() {
	manuallyDisabledErr = dlerrors.DisabledError{Err: errors.New("the build tag `dlbind.disabled` is set")}
}
