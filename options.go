// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"errors"
	"strings"

	"github.com/DataDog/go-dlbind/internal/bindings"
)

// Option configures [Open].
type Option func(*config) error

type config struct {
	searchPaths []string
	flags       int
	loader      Loader
	deallocator string
}

func newConfig(opts ...Option) (config, error) {
	cfg := config{
		// RTLD_NOW makes unsatisfied link-time dependencies fail at Open.
		flags: bindings.RTLD_NOW | bindings.RTLD_GLOBAL,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// WithSearchPaths adds directories searched for the library before falling
// back to the platform search mechanism. Empty entries are ignored.
func WithSearchPaths(dirs ...string) Option {
	return func(cfg *config) error {
		cfg.searchPaths = append(cfg.searchPaths, dirs...)
		return nil
	}
}

// WithLocal keeps the library symbols out of the global namespace
// (RTLD_LOCAL). It has no effect on windows.
func WithLocal() Option {
	return func(cfg *config) error {
		cfg.flags = bindings.RTLD_NOW | bindings.RTLD_LOCAL
		return nil
	}
}

// WithLoader replaces the platform dynamic loader.
func WithLoader(loader Loader) Option {
	return func(cfg *config) error {
		if loader == nil {
			return errors.New("loader cannot be nil")
		}
		cfg.loader = loader
		return nil
	}
}

// WithDeallocator names a `void(char*)` export of the library used to release
// [Owned] strings. Without it, owned strings are released with the C runtime's
// free(3).
func WithDeallocator(symbol string) Option {
	return func(cfg *config) error {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			return errors.New("deallocator symbol cannot be empty")
		}
		cfg.deallocator = symbol
		return nil
	}
}
