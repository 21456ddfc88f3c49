// Package config collects the server settings from flags, the environment
// and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultPort    = "8080"
	DefaultWebDir  = "web"
	DefaultEnvFile = ".env"
)

type Config struct {
	Port        string
	WebDir      string
	DatabaseURL string
	Mode        string
}

// Load parses args (without the program name). Flags give the defaults;
// PORT, WEB_DIR and DATABASE_URL override them. The env file named by
// -env-file is loaded first and never replaces variables that are already
// set.
func Load(args []string, stderr io.Writer) (Config, error) {
	flags := flag.NewFlagSet("example-go", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		port    = flags.String("port", DefaultPort, "port to listen on in serve mode")
		webDir  = flags.String("web", DefaultWebDir, "directory to serve static files from")
		mode    = flags.String("mode", "auto", "startup mode: auto, serve, cgi or once")
		envFile = flags.String("env-file", DefaultEnvFile, "dotenv file to load before reading the environment")
	)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        *port,
		WebDir:      *webDir,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Mode:        *mode,
	}
	if env := os.Getenv("PORT"); env != "" {
		cfg.Port = env
	}
	if env := os.Getenv("WEB_DIR"); env != "" {
		cfg.WebDir = env
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
