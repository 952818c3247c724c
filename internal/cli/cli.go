package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/suiteplan/internal/app"
	flag "github.com/spf13/pflag"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("suiteplan", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
suiteplan - Build dependency graph resolver for multi-project suites.

Usage:
  suiteplan [options] COMMAND [TARGET]

Commands:
  plan                 Print the topological build plan.
  closure ID           Print everything ID transitively depends on.
  content DIST         Print what distribution DIST packages.
  monolithic DIST      Print DIST's content merged with everything it overlaps.
  overlaps [DIST]      Check declared overlaps of DIST, or of every distribution.
  checkstyle PROJECT   Print the project whose style rules apply to PROJECT.
  resolve              Fetch and verify every library, annotating the plan.
  validate             Validate the manifest and all overlaps.

Options:
`)
		flagSet.PrintDefaults()
	}

	cfg := app.Defaults()
	flagSet.StringArrayVarP(&cfg.ManifestPaths, "manifest", "m", cfg.ManifestPaths, "Manifest file or directory. Repeatable.")
	settingsPath := flagSet.String("settings", "", "Path to a TOML settings file.")
	flagSet.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "Directory for verified library downloads. Empty disables caching.")
	flagSet.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent library fetches.")
	flagSet.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Timeout for a single HTTP download.")
	flagSet.BoolVar(&cfg.Offline, "offline", cfg.Offline, "Disable network fetchers; only file URLs and the cache are used.")
	flagSet.BoolVar(&cfg.BundleLibraries, "bundle-libraries", cfg.BundleLibraries, "Include libraries in distribution content.")
	flagSet.BoolVar(&cfg.StripProvided, "strip-provided", cfg.StripProvided, "Omit content already packaged by dist_dependencies.")
	flagSet.StringVar(&cfg.EventsURL, "events-url", cfg.EventsURL, "socket.io server to stream build events to.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text', 'json' or 'pretty'.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Result format. Options: 'text', 'json' or 'yaml'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 2 {
		return nil, false, usageError("too many arguments: %s", strings.Join(flagSet.Args()[2:], " "))
	}
	cfg.Command = flagSet.Arg(0)
	cfg.Target = flagSet.Arg(1)

	if *settingsPath != "" {
		settings, err := app.LoadSettings(*settingsPath)
		if err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		if err := settings.Apply(&cfg, flagSet.Changed); err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		slog.Debug("Settings file applied.", "path", *settingsPath)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Output = strings.ToLower(cfg.Output)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
