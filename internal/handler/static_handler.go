package handler

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticHandler serves the built frontend. Paths that do not name a file
// get index.html so the client-side router can handle them.
type StaticHandler struct {
	dir   string
	index string
	files http.Handler
}

func NewStaticHandler(dir string) (*StaticHandler, error) {
	index := filepath.Join(dir, "index.html")
	info, err := os.Stat(index)
	if err != nil {
		return nil, fmt.Errorf("static dir %q: %w", dir, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("static dir %q: index.html is a directory", dir)
	}
	return &StaticHandler{
		dir:   dir,
		index: index,
		files: http.FileServer(http.Dir(dir)),
	}, nil
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	if clean != "/" {
		target := filepath.Join(h.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}
	h.serveIndex(w, r)
}

func (h *StaticHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.index)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, "index.html", info.ModTime(), f)
}
