// Package router dispatches requests to the static files, the health
// endpoint or a 404.
package router

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/dollardeploy/example-go/pkg/dbconn"
	"github.com/dollardeploy/example-go/pkg/static"
)

const staticPrefix = "/static/"

// Connector is the part of dbconn.Connector the router needs.
type Connector interface {
	Connect(ctx context.Context, rawURL string) dbconn.Outcome
}

// Router implements http.Handler. Every request makes its own connection
// attempt; nothing is shared between requests.
type Router struct {
	files       *static.Server
	db          Connector
	databaseURL string
}

// request carries per-request state through dispatch.
type request struct {
	db dbconn.Outcome
}

type healthJSON struct {
	Status   string       `json:"status"`
	Database databaseJSON `json:"database"`
}

type databaseJSON struct {
	Type      dbconn.Kind `json:"type"`
	Status    string      `json:"status"`
	Connected bool        `json:"connected"`
}

func New(files *static.Server, db Connector, databaseURL string) *Router {
	return &Router{files: files, db: db, databaseURL: databaseURL}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := request{db: rt.db.Connect(r.Context(), rt.databaseURL)}
	defer req.db.Close()

	if rt.databaseURL != "" && !req.db.Connected() {
		log.Printf("database: %s", req.db.Status)
	}

	rt.dispatch(w, r.URL.Path, req)
}

func (rt *Router) dispatch(w http.ResponseWriter, path string, req request) {
	switch {
	case path == "/":
		rt.files.ServeFile(w, "/index.html")
	case path == "/health":
		writeHealth(w, req.db)
	case strings.HasPrefix(path, staticPrefix):
		rt.files.ServeFile(w, path[len(staticPrefix)-1:])
	default:
		static.NotFound(w)
	}
}

func writeHealth(w http.ResponseWriter, db dbconn.Outcome) {
	body, err := json.MarshalIndent(healthJSON{
		Status: "ok",
		Database: databaseJSON{
			Type:      db.Type,
			Status:    db.Status,
			Connected: db.Connected(),
		},
	}, "", "    ")
	if err != nil {
		log.Printf("health: encode: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
