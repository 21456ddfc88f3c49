package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dollardeploy/example-go/pkg/config"
	"github.com/dollardeploy/example-go/pkg/dbconn"
	"github.com/dollardeploy/example-go/pkg/launch"
	"github.com/dollardeploy/example-go/pkg/router"
	"github.com/dollardeploy/example-go/pkg/static"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args, os.Stderr)
	if err != nil {
		return err
	}

	mode, err := launch.Detect(cfg.Mode, os.Getenv)
	if err != nil {
		return err
	}

	files := static.New(cfg.WebDir)
	h := router.New(files, dbconn.Connector{}, cfg.DatabaseURL)

	if mode == launch.ModeServe {
		log.Printf("Serving static files from %s", files.Root())
	}
	return launch.Run(context.Background(), mode, h, launch.Options{Port: cfg.Port})
}
