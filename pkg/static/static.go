package static

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const notFoundBody = "404 Not Found"

// Server serves regular files that resolve inside a single web root.
type Server struct {
	root string
}

// New returns a Server for root. The root is made absolute and, when it
// exists, symlink-free, so containment checks compare canonical paths.
func New(root string) *Server {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Server{root: abs}
}

// Root returns the canonical web root.
func (s *Server) Root() string {
	return s.root
}

// ServeFile writes the file at p (a slash-prefixed path relative to the web
// root) or a 404. Paths that escape the root are indistinguishable from
// missing files.
func (s *Server) ServeFile(w http.ResponseWriter, p string) {
	full, ok := s.resolve(p)
	if !ok {
		NotFound(w)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		NotFound(w)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		NotFound(w)
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(full), ".")
	w.Header().Set("Content-Type", ContentType(ext))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("static: streaming %s: %v", full, err)
	}
}

// resolve canonicalizes root+p and reports whether the result stays inside
// the root.
func (s *Server) resolve(p string) (string, bool) {
	full, err := filepath.EvalSymlinks(s.root + filepath.FromSlash(p))
	if err != nil {
		return "", false
	}
	full, err = filepath.Abs(full)
	if err != nil {
		return "", false
	}
	if !within(s.root, full) {
		return "", false
	}
	return full, true
}

// within reports whether full is root or lies below it. Both paths must be
// clean and absolute.
func within(root, full string) bool {
	if full == root {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(full, strings.TrimSuffix(root, sep)+sep)
}

// NotFound writes a plain-text 404 with the body "404 Not Found".
func NotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, notFoundBody)
}
