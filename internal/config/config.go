// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config loads binding manifests: which library to open, where to
// look for it and who owns the strings its exports return.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/DataDog/go-dlbind"
	"github.com/DataDog/go-dlbind/internal/log"
)

// Environment variables overriding the manifest.
const (
	EnvLibrary     = "DLBIND_LIBRARY"
	EnvLibraryPath = "DLBIND_LIBRARY_PATH"
	EnvLogLevel    = log.EnvLevel
)

// Manifest describes how a library is loaded and bound.
type Manifest struct {
	Library     string            `toml:"library"`
	SearchPaths []string          `toml:"search_paths"`
	Deallocator string            `toml:"deallocator"`
	LogLevel    string            `toml:"log_level"`
	Symbols     map[string]Symbol `toml:"symbols"`
}

// Symbol is the per-export section of a manifest.
type Symbol struct {
	Ownership string `toml:"ownership"`
}

// Load reads the manifest in the TOML file at path. Relative search paths are
// resolved against the directory of the file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, p := range m.SearchPaths {
		if p != "" && !filepath.IsAbs(p) {
			m.SearchPaths[i] = filepath.Join(dir, p)
		}
	}
	return m, nil
}

// Parse decodes a manifest. Unknown keys are errors.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown manifest keys: %s", strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the values the TOML decoder cannot. It must be called again
// once the manifest was overridden by the environment or flags.
func (m *Manifest) Validate() error {
	if m.LogLevel != "" {
		if log.LevelNamed(m.LogLevel) == log.LevelOff && !strings.EqualFold(strings.TrimSpace(m.LogLevel), "off") {
			return fmt.Errorf("unknown log level %q", m.LogLevel)
		}
	}
	if m.Deallocator != "" && strings.TrimSpace(m.Deallocator) == "" {
		return errors.New("deallocator cannot be blank")
	}
	return nil
}

// ApplyEnv overrides the manifest with the environment variables that are set.
// DLBIND_LIBRARY_PATH is a list of directories searched before the manifest
// ones.
func (m *Manifest) ApplyEnv() {
	if lib := os.Getenv(EnvLibrary); lib != "" {
		m.Library = lib
	}
	if paths := os.Getenv(EnvLibraryPath); paths != "" {
		m.SearchPaths = append(filepath.SplitList(paths), m.SearchPaths...)
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		m.LogLevel = level
	}
}

// Ownerships returns the ownership declared for each symbol. Symbols without
// an ownership are left out.
func (m *Manifest) Ownerships() (map[string]dlbind.Ownership, error) {
	ownerships := make(map[string]dlbind.Ownership, len(m.Symbols))
	var errs []error
	for name, sym := range m.Symbols {
		if sym.Ownership == "" {
			continue
		}
		ownership, err := dlbind.ParseOwnership(sym.Ownership)
		if err != nil {
			errs = append(errs, fmt.Errorf("symbols.%s: %w", name, err))
			continue
		}
		ownerships[name] = ownership
	}
	return ownerships, errors.Join(errs...)
}

// Options returns the [dlbind.Option] list matching the manifest.
func (m *Manifest) Options() []dlbind.Option {
	var opts []dlbind.Option
	if len(m.SearchPaths) != 0 {
		opts = append(opts, dlbind.WithSearchPaths(m.SearchPaths...))
	}
	if m.Deallocator != "" {
		opts = append(opts, dlbind.WithDeallocator(m.Deallocator))
	}
	return opts
}
