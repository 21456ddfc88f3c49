package main

import (
	"context"
	"log"
	"os"

	"github.com/dollardeploy/example-go/pkg/config"
	"github.com/dollardeploy/example-go/pkg/dbconn"
	"github.com/dollardeploy/example-go/pkg/launch"
	"github.com/dollardeploy/example-go/pkg/router"
	"github.com/dollardeploy/example-go/pkg/static"
)

// Container entrypoint: always runs the built-in server, whatever the
// environment looks like. Use the root binary for CGI or one-shot runs.
func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	files := static.New(cfg.WebDir)
	h := router.New(files, dbconn.Connector{}, cfg.DatabaseURL)

	log.Printf("Listening on :%s, serving %s", cfg.Port, files.Root())
	if err := launch.Run(context.Background(), launch.ModeServe, h, launch.Options{Port: cfg.Port}); err != nil {
		log.Fatal(err)
	}
}
