// Package config resolves server settings from flags, the process
// environment and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvPort          = "PORT"
	EnvHost          = "HOST"
	EnvTheme         = "VISACHECK_THEME"
	EnvVariant       = "VISACHECK_VARIANT"
	EnvLogLevel      = "VISACHECK_LOG_LEVEL"
	EnvShutdownGrace = "VISACHECK_SHUTDOWN_GRACE"
	EnvTemplateDir   = "VISACHECK_TEMPLATE_DIR"
)

const (
	DefaultPort          = 10000
	DefaultHost          = "0.0.0.0"
	DefaultEnvFile       = ".env"
	DefaultShutdownGrace = 5 * time.Second
	DefaultHeaderTimeout = 10 * time.Second
)

// Config holds the resolved server settings.
type Config struct {
	Host              string
	Port              int
	Addr              string
	Theme             string
	Variant           string
	LogLevel          logrus.Level
	ShutdownGrace     time.Duration
	ReadHeaderTimeout time.Duration
	EnvFile           string

	// TemplateDir holds page template overrides; empty uses the embedded set.
	TemplateDir string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Host:              DefaultHost,
		Port:              DefaultPort,
		Addr:              net.JoinHostPort(DefaultHost, strconv.Itoa(DefaultPort)),
		LogLevel:          logrus.InfoLevel,
		ShutdownGrace:     DefaultShutdownGrace,
		ReadHeaderTimeout: DefaultHeaderTimeout,
		EnvFile:           DefaultEnvFile,
	}
}

// Load parses args (without the program name) and resolves the remaining
// settings from the process environment and the .env file. A missing .env
// file is not an error.
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv, os.Stderr)
}

func load(args []string, lookupEnv func(string) (string, bool), output io.Writer) (Config, error) {
	cfg := Default()

	flags := flag.NewFlagSet("visacheck-server", flag.ContinueOnError)
	flags.SetOutput(output)
	addr := flags.String("addr", "", "HTTP listen address (overrides HOST and PORT)")
	grace := flags.Duration("grace", 0, "Shutdown grace period")
	envFile := flags.String("env-file", DefaultEnvFile, "Optional dotenv file")
	theme := flags.String("theme", "", "Theme name")
	variant := flags.String("variant", "", "Theme variant")
	templates := flags.String("templates", "", "Directory with page template overrides")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}
	cfg.EnvFile = strings.TrimSpace(*envFile)

	dotenv, err := readDotenv(cfg.EnvFile)
	if err != nil {
		return Config{}, err
	}
	get := func(key string) string {
		if value, ok := lookupEnv(key); ok {
			return strings.TrimSpace(value)
		}
		return strings.TrimSpace(dotenv[key])
	}

	if raw := get(EnvHost); raw != "" {
		cfg.Host = raw
	}
	if raw := get(EnvPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid %s %q", EnvPort, raw)
		}
		cfg.Port = port
	}
	cfg.Theme = get(EnvTheme)
	cfg.Variant = get(EnvVariant)
	cfg.TemplateDir = get(EnvTemplateDir)
	if raw := get(EnvLogLevel); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	if raw := get(EnvShutdownGrace); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("config: invalid %s %q", EnvShutdownGrace, raw)
		}
		cfg.ShutdownGrace = d
	}
	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = strings.TrimSpace(*addr)
		case "grace":
			cfg.ShutdownGrace = *grace
		case "theme":
			cfg.Theme = strings.TrimSpace(*theme)
		case "variant":
			cfg.Variant = strings.TrimSpace(*variant)
		case "templates":
			cfg.TemplateDir = strings.TrimSpace(*templates)
		}
	})
	if cfg.Addr == "" {
		return Config{}, errors.New("config: listen address is empty")
	}
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}
