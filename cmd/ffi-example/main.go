// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// The ffi-example command loads the demo library and prints the results of a
// fixed sequence of calls to its exports.
package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/DataDog/go-dlbind"
	"github.com/DataDog/go-dlbind/dlerrors"
	"github.com/DataDog/go-dlbind/example"
	"github.com/DataDog/go-dlbind/internal/config"
	"github.com/DataDog/go-dlbind/internal/log"
)

const name = "ffi-example"

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitLoad
	exitSymbol
	exitEncoding
)

//go:embed default.toml
var defaultManifest []byte

func main() {
	os.Exit(Main())
}

// Main runs the command with the process arguments and returns its exit code.
func Main() int {
	return run(os.Args, os.Stdout, os.Stderr)
}

// stepError records which step of the sequence failed.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.step + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func step(name string, err error) error {
	if err == nil {
		return nil
	}
	return &stepError{step: name, err: err}
}

// run executes the command. opts are appended to the options derived from the
// flags and manifest.
func run(args []string, stdout, stderr io.Writer, opts ...dlbind.Option) int {
	app := newApp(stdout, stderr, opts)
	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var (
		loadErr     *dlerrors.LoadError
		notFoundErr *dlerrors.SymbolNotFoundError
		encodingErr *dlerrors.EncodingError
	)
	switch {
	case errors.As(err, &loadErr):
		return exitLoad
	case errors.As(err, &notFoundErr):
		return exitSymbol
	case errors.As(err, &encodingErr):
		return exitEncoding
	default:
		return exitFailure
	}
}

func newApp(stdout, stderr io.Writer, opts []dlbind.Option) *cli.App {
	app := cli.NewApp()
	app.Name = name
	app.Usage = "call the exports of the demo shared library"
	app.Description = "ffi-example loads " + example.DefaultName + ", binds each of its exports once and prints the result of calling them."
	app.HideVersion = true
	app.Writer = stdout
	app.ErrWriter = stderr
	// Errors are reported by run, with their exit code.
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "library",
			Aliases: []string{"l"},
			Usage:   "shared library to load, as a file name or path (default: " + example.DefaultName + ")",
			EnvVars: []string{config.EnvLibrary},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "TOML binding manifest replacing the built-in one",
		},
		&cli.StringSliceFlag{
			Name:    "search-path",
			Aliases: []string{"L"},
			Usage:   "directory searched for the library before the system paths",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "one of trace, debug, info, warn, error, off",
			EnvVars: []string{config.EnvLogLevel},
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print call statistics to stderr",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() != 0 {
			return fmt.Errorf("unexpected arguments: %s", strings.Join(c.Args().Slice(), " "))
		}

		manifest, err := loadManifest(c)
		if err != nil {
			return step("config", err)
		}
		if manifest.LogLevel != "" {
			log.SetLevel(log.LevelNamed(manifest.LogLevel))
		}

		ownerships, err := manifest.Ownerships()
		if err != nil {
			return step("config", err)
		}

		lib, err := example.Open(manifest.Library, ownerships, append(manifest.Options(), opts...)...)
		if err != nil {
			var loadErr *dlerrors.LoadError
			if errors.As(err, &loadErr) {
				return step("open", err)
			}
			return step("bind", err)
		}
		defer func() {
			if err := lib.Close(); err != nil {
				log.Warnf("closing %s: %v", manifest.Library, err)
			}
		}()

		err = demo(lib, stdout)
		if c.Bool("stats") {
			printStats(stderr, lib.Handle().Stats())
		}
		return err
	}
	return app
}

// loadManifest reads the manifest given with --config, or the built-in one,
// then applies the environment and the flags.
func loadManifest(c *cli.Context) (*config.Manifest, error) {
	var (
		manifest *config.Manifest
		err      error
	)
	if path := c.String("config"); path != "" {
		manifest, err = config.Load(path)
	} else {
		manifest, err = config.Parse(defaultManifest)
	}
	if err != nil {
		return nil, err
	}

	manifest.ApplyEnv()
	if c.IsSet("library") {
		manifest.Library = c.String("library")
	}
	if c.IsSet("search-path") {
		manifest.SearchPaths = append(c.StringSlice("search-path"), manifest.SearchPaths...)
	}
	if c.IsSet("log-level") {
		manifest.LogLevel = c.String("log-level")
	}
	if manifest.Library == "" {
		manifest.Library = example.DefaultName
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// demo runs the fixed call sequence, printing one line per result.
func demo(lib *example.Library, stdout io.Writer) error {
	for n := int64(1); n <= 10; n++ {
		f, err := lib.Factorial.Call(n)
		if err != nil {
			return step("factorial", err)
		}
		fmt.Fprintf(stdout, "%d! = %d\n", n, f)
	}

	greeting, err := lib.Greet.Call("World")
	if err != nil {
		return step("greet", err)
	}
	fmt.Fprintln(stdout, greeting)

	repeated, err := lib.RepeatString.Call("ha", 3)
	if err != nil {
		return step("repeat_string", err)
	}
	fmt.Fprintln(stdout, repeated)

	if err := lib.ShoutIt.Call("hello from yamlscript"); err != nil {
		return step("shout_it", err)
	}

	maybe, err := lib.Maybe.Call()
	if err != nil {
		return step("maybe", err)
	}
	fmt.Fprintf(stdout, "maybe: %t\n", maybe)

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString([]int64{3, 1, 4, 1, 5, 9, 2, 6})
	if err != nil {
		return step("sort_json_array", err)
	}
	sorted, err := lib.SortJSONArray.Call(payload)
	if err != nil {
		return step("sort_json_array", err)
	}
	fmt.Fprintf(stdout, "sorted: %s\n", sorted)
	return nil
}

func printStats(w io.Writer, stats dlbind.Stats) {
	metrics := stats.Metrics()
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %v\n", k, metrics[k])
	}
}
