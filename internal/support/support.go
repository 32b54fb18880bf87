// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package support

import "errors"

// Store all the errors related to why dynamic loading is unavailable for the
// current target. Filled by build-tag specific init functions.
var supportErrors []error

// Not nil if the build tag `dlbind.disabled` is set
var manuallyDisabledErr error

// SupportErrors returns all the errors related to why dynamic loading is
// unavailable for the current target, joined, or nil.
func SupportErrors() error {
	return errors.Join(supportErrors...)
}

// ManuallyDisabledError returns an error if the build tag `dlbind.disabled` is set
func ManuallyDisabledError() error {
	return manuallyDisabledErr
}
