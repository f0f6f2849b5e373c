package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"linctl/internal/config"
)

const logLevelEnvKey = "LINCTL_LOG_LEVEL"

// levelChoice is a log level together with where it came from. The
// origin decides how an unparsable value is reported: a bad flag is the
// user's direct mistake and errors out, while bad env or config values
// warn and fall back to the default level.
type levelChoice struct {
	raw    string
	origin string
}

func chooseLogLevel(flagLevel, envLevel, configLevel string) levelChoice {
	if strings.TrimSpace(flagLevel) != "" {
		return levelChoice{raw: flagLevel, origin: "flag"}
	}
	if strings.TrimSpace(envLevel) != "" {
		return levelChoice{raw: envLevel, origin: "env"}
	}
	if strings.TrimSpace(configLevel) != "" {
		return levelChoice{raw: configLevel, origin: "config"}
	}
	return levelChoice{origin: "default"}
}

func (c levelChoice) fromFlag() bool { return c.origin == "flag" }

// fallbackWarning renders the message shown when the chosen value was
// rejected and the default level took over.
func (c levelChoice) fallbackWarning() string {
	switch c.origin {
	case "env":
		return fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, c.raw, config.DefaultLogLevel)
	case "config":
		return fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", c.raw, config.DefaultLogLevel)
	default:
		return ""
	}
}

// configureLoggerForCLI installs the default logger at the level chosen
// from flag, environment, and config, in that order. It returns a
// warning to print on stderr when a non-flag source held an invalid
// level.
func configureLoggerForCLI(flagLevel, configLevel string) (string, error) {
	choice := chooseLogLevel(flagLevel, os.Getenv(logLevelEnvKey), configLevel)
	if err := configureDefaultLogger(choice.raw); err != nil {
		if choice.fromFlag() {
			return "", fmt.Errorf("invalid --log-level %q", flagLevel)
		}
		_ = configureDefaultLogger("")
		return choice.fallbackWarning(), nil
	}
	return "", nil
}

func configureDefaultLogger(rawLevel string) error {
	level, err := parseLogLevel(rawLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(level))
	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelWarn, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
