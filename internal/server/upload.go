package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const (
	uploadField     = "audioFile"
	uploadMaxMemory = 32 << 20

	msgNoFiles  = "No files were uploaded."
	msgUploaded = "File uploaded!"
)

// UploadHandler stores the multipart "audioFile" part under dir.
//
// The client-supplied base name is used as-is, so a second upload with the same name overwrites the first.
type UploadHandler struct {
	dir    string
	logger *log.Logger
}

// NewUploadHandler creates an [UploadHandler] writing into dir.
func NewUploadHandler(dir string, logger *log.Logger) *UploadHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &UploadHandler{dir: dir, logger: logger}
}

func (h *UploadHandler) Routes() []string { return []string{"POST /api/upload"} }

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMaxMemory); err != nil {
		writeText(w, http.StatusBadRequest, msgNoFiles)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeText(w, http.StatusBadRequest, msgNoFiles)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		writeText(w, http.StatusBadRequest, msgNoFiles)
		return
	}

	dest := filepath.Join(h.dir, name)
	if err := save(file, dest); err != nil {
		h.logger.Error("upload failed", "file", name, "error", err)
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("file uploaded", "file", name, "size", header.Size, "path", dest)
	writeText(w, http.StatusOK, msgUploaded)
}

func save(src io.Reader, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
