package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// SPAHandler serves the built frontend from root.
//
// Paths that don't name a file fall back to index.html so client-side routes resolve.
type SPAHandler struct {
	root  string
	files http.Handler
}

// NewSPAHandler creates a [SPAHandler] for the directory root.
func NewSPAHandler(root string) *SPAHandler {
	return &SPAHandler{root: root, files: http.FileServer(http.Dir(root))}
}

func (h *SPAHandler) Routes() []string { return []string{"GET /"} }

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(h.root, filepath.FromSlash(path.Clean("/"+r.URL.Path)))

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}

	index := filepath.Join(h.root, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}
