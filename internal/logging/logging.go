// Package logging provides structured logging handler construction for the
// compiler, built on github.com/rs/zerolog. No command in this module calls
// its flag or completion helpers.
//
// It mirrors the flag/config shape of the teacher's log package (level and
// format as CLI flags via spf13/pflag, with shell completion support via
// spf13/cobra) but targets zerolog instead of log/slog, since the compiler
// only needs leveled event logging, not a pluggable handler chain.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Format selects how log records are rendered.
type Format int

const (
	FormatJSON Format = iota
	FormatConsole
)

func (f Format) String() string {
	if f == FormatConsole {
		return "console"
	}
	return "json"
}

// ParseFormat parses a format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "console", "text":
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("logging: unknown format %q, one of: %s", s, AllFormatStrings())
	}
}

// AllFormatStrings lists the accepted format flag values.
func AllFormatStrings() []string { return []string{"json", "console"} }

// AllLevelStrings lists the accepted level flag values.
func AllLevelStrings() []string {
	return []string{"debug", "info", "warn", "error", "disabled"}
}

// Flags holds CLI flag names for log configuration.
type Flags struct {
	Level  string
	Format string
}

// NewConfig creates a Config carrying these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f, Level: "info", Format: "json"}
}

// Config holds CLI flag values for log configuration. Build one with
// NewConfig, register flags with RegisterFlags, then call NewLogger once
// flags are parsed.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a Config with default flag names "log-level" and
// "log-format".
func NewConfig() *Config {
	return Flags{Level: "log-level", Format: "log-format"}.NewConfig()
}

// RegisterFlags adds logging flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, c.Level,
		fmt.Sprintf("log level, one of: %s", strings.Join(AllLevelStrings(), ", ")))
	flags.StringVar(&c.Format, c.Flags.Format, c.Format,
		fmt.Sprintf("log format, one of: %s", strings.Join(AllFormatStrings(), ", ")))
}

// RegisterCompletions registers shell completions for the logging flags.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(AllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-level completion: %w", err)
	}
	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(AllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-format completion: %w", err)
	}
	return nil
}

// NewLogger builds a zerolog.Logger writing to w from the stored level and
// format flag values.
func (c *Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	return NewLoggerFromStrings(w, c.Level, c.Format)
}

// NewLoggerFromStrings builds a zerolog.Logger from raw level/format flag
// strings, used directly by callers that do not go through Config.
func NewLoggerFromStrings(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("logging: unknown level %q, one of: %s", level, strings.Join(AllLevelStrings(), ", "))
	}
	f, err := ParseFormat(format)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var out io.Writer = w
	if f == FormatConsole {
		out = zerolog.ConsoleWriter{Out: w, NoColor: false}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Nop returns a logger that discards everything, used as the default for
// library entry points (compiler.Compiler, etc.) that are not given a
// logger explicitly: the validator hot path stays silent by default and a
// real sink is attached only through Compiler.WithLogger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
