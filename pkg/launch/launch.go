// Package launch decides how the process was started and runs the handler
// accordingly: as a CGI program, as a standalone server, or for one request.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cgi"
	"net/http/httptest"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
)

type Mode int

const (
	// ModeServe binds a listener and serves until interrupted.
	ModeServe Mode = iota
	// ModeCGI handles the single request a host web server handed over.
	ModeCGI
	// ModeOnce handles one request synthesized from REQUEST_METHOD and
	// REQUEST_URI and prints the body.
	ModeOnce
)

func (m Mode) String() string {
	switch m {
	case ModeServe:
		return "serve"
	case ModeCGI:
		return "cgi"
	case ModeOnce:
		return "once"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const shutdownTimeout = 5 * time.Second

// Detect resolves the requested mode name. "auto" (or empty) picks CGI when
// a host web server has set GATEWAY_INTERFACE and serve mode otherwise.
func Detect(requested string, getenv func(string) string) (Mode, error) {
	switch requested {
	case "", "auto":
		if getenv("GATEWAY_INTERFACE") != "" {
			return ModeCGI, nil
		}
		return ModeServe, nil
	case "serve":
		return ModeServe, nil
	case "cgi":
		return ModeCGI, nil
	case "once":
		return ModeOnce, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want auto, serve, cgi or once)", requested)
}

// Options carries what the individual modes need.
type Options struct {
	Port   string
	Stdout io.Writer
	Getenv func(string) string
}

// Run executes h in the given mode. In serve mode it blocks until SIGINT or
// SIGTERM, or until ctx is done.
func Run(ctx context.Context, mode Mode, h http.Handler, opts Options) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	switch mode {
	case ModeServe:
		return serve(ctx, h, opts)
	case ModeCGI:
		return cgi.Serve(h)
	case ModeOnce:
		return once(h, opts)
	}
	return fmt.Errorf("unknown mode %v", mode)
}

// Banner writes the startup lines for serve mode.
func Banner(w io.Writer, port string, interactive bool) {
	fmt.Fprintf(w, "Starting web server on port %s...\n", port)
	fmt.Fprintf(w, "Server running at http://localhost:%s\n", port)
	if interactive {
		fmt.Fprintln(w, "Press Ctrl+C to stop")
	}
	fmt.Fprintln(w)
}

func serve(ctx context.Context, h http.Handler, opts Options) error {
	Banner(opts.Stdout, opts.Port, isTerminal(opts.Stdout))

	srv := &http.Server{
		Addr:    "0.0.0.0:" + opts.Port,
		Handler: h,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func once(h http.Handler, opts Options) error {
	method := opts.Getenv("REQUEST_METHOD")
	if method == "" {
		method = http.MethodGet
	}
	target := opts.Getenv("REQUEST_URI")
	if target == "" {
		target = "/"
	}

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, target, err)
	}
	req.RequestURI = target

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	log.Printf("%s %s -> %d", method, target, rec.Code)
	if _, err := rec.Body.WriteTo(opts.Stdout); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
