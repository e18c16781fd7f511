package server

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/shared"
	tu "github.com/desertthunder/playdeck/internal/testing"
	"golang.org/x/time/rate"
)

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(content)
	} else {
		mw.WriteField("note", "no file here")
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testConfig(t *testing.T) shared.ServerConfig {
	t.Helper()
	cfg := shared.DefaultConfig().Server
	cfg.UploadsDir = filepath.Join(t.TempDir(), "uploads")
	cfg.StaticDir = t.TempDir()
	cfg.UploadRate = 0
	return cfg
}

func TestUploadHandler(t *testing.T) {
	t.Run("Stores File Under Base Name", func(t *testing.T) {
		dir := t.TempDir()
		h := NewUploadHandler(dir, nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, uploadRequest(t, "audioFile", "song.mp3", []byte("ID3data")))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Body.String(); got != "File uploaded!" {
			t.Errorf("expected body 'File uploaded!', got %q", got)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "song.mp3"))
		if got := string(tu.MustReadFile(t, filepath.Join(dir, "song.mp3"))); got != "ID3data" {
			t.Errorf("expected stored content 'ID3data', got %q", got)
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		dir := t.TempDir()
		h := NewUploadHandler(dir, nil)

		h.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "audioFile", "song.mp3", []byte("first")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "audioFile", "song.mp3", []byte("second")))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := string(tu.MustReadFile(t, filepath.Join(dir, "song.mp3"))); got != "second" {
			t.Errorf("expected overwritten content 'second', got %q", got)
		}
	})

	t.Run("Strips Directories From Name", func(t *testing.T) {
		dir := t.TempDir()
		h := NewUploadHandler(dir, nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, uploadRequest(t, "audioFile", "../../escape.mp3", []byte("x")))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "escape.mp3"))
	})

	t.Run("Missing File", func(t *testing.T) {
		tests := []struct {
			name string
			req  func(t *testing.T) *http.Request
		}{
			{"No Parts", func(t *testing.T) *http.Request { return uploadRequest(t, "", "", nil) }},
			{"Wrong Field", func(t *testing.T) *http.Request { return uploadRequest(t, "other", "a.mp3", []byte("x")) }},
			{"Not Multipart", func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("plain"))
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := httptest.NewRecorder()
				NewUploadHandler(t.TempDir(), nil).ServeHTTP(rec, tt.req(t))

				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rec.Code)
				}
				if got := rec.Body.String(); got != "No files were uploaded." {
					t.Errorf("expected body 'No files were uploaded.', got %q", got)
				}
			})
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("file"), 0644); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		var logs bytes.Buffer
		h := NewUploadHandler(filepath.Join(blocker, "uploads"), log.New(&logs))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "audioFile", "song.mp3", []byte("x")))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		if rec.Body.Len() == 0 {
			t.Error("expected error text in body")
		}
		if !strings.Contains(logs.String(), "upload failed") {
			t.Errorf("expected failure to be logged, got %q", logs.String())
		}
	})
}

func TestSPAHandler(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>app</html>"), 0644)
	os.MkdirAll(filepath.Join(root, "static"), 0755)
	os.WriteFile(filepath.Join(root, "static", "main.js"), []byte("console.log(1)"), 0644)

	h := NewSPAHandler(root)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"Root", "/", "<html>app</html>"},
		{"Static Asset", "/static/main.js", "console.log(1)"},
		{"Client Route", "/favorites/42", "<html>app</html>"},
		{"Directory", "/static/", "<html>app</html>"},
		{"Traversal", "/../../etc/passwd", "<html>app</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("expected body %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("Missing Index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewSPAHandler(t.TempDir()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, RequestIDFrom(r.Context()))
	})

	t.Run("RequestID", func(t *testing.T) {
		t.Run("Generates ID", func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequestID()(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			id := rec.Header().Get(RequestIDHeader)
			if id == "" {
				t.Fatal("expected generated request id")
			}
			if rec.Body.String() != id {
				t.Errorf("expected context id %q, got %q", id, rec.Body.String())
			}
		})

		t.Run("Preserves Incoming ID", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			RequestID()(ok).ServeHTTP(rec, req)

			if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
				t.Errorf("expected 'abc-123', got %q", got)
			}
		})
	})

	t.Run("Logging", func(t *testing.T) {
		var logs bytes.Buffer
		failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusTeapot)
		})

		Logging(log.New(&logs))(failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

		out := logs.String()
		for _, want := range []string{"WARN", "/brew", "418"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected log to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("CORS", func(t *testing.T) {
		t.Run("Sets Allowed Origin", func(t *testing.T) {
			rec := httptest.NewRecorder()
			CORS("http://localhost:3000")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
				t.Errorf("expected allowed origin, got %q", got)
			}
		})

		t.Run("Answers Preflight", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", "POST")
			rec := httptest.NewRecorder()

			called := false
			CORS("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("expected status 204, got %d", rec.Code)
			}
			if called {
				t.Error("expected preflight to stop before handler")
			}
		})

		t.Run("Disabled Without Origin", func(t *testing.T) {
			rec := httptest.NewRecorder()
			CORS("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
				t.Errorf("expected no CORS header, got %q", got)
			}
		})
	})

	t.Run("RateLimit", func(t *testing.T) {
		h := RateLimit(rate.NewLimiter(rate.Every(time.Hour), 2))(ok)

		codes := make([]int, 3)
		for i := range codes {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/upload", nil))
			codes[i] = rec.Code
		}

		if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
			t.Errorf("expected burst to pass, got %v", codes)
		}
		if codes[2] != http.StatusTooManyRequests {
			t.Errorf("expected status 429 after burst, got %d", codes[2])
		}
	})
}

func TestRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("expected first,second,handler, got %v", order)
		}
	})

	t.Run("Wired Routes", func(t *testing.T) {
		cfg := testConfig(t)
		os.WriteFile(filepath.Join(cfg.StaticDir, "index.html"), []byte("index"), 0644)
		router := NewRouter(Options{Config: cfg})

		t.Run("Upload", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, "audioFile", "track.mp3", []byte("x")))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			if rec.Header().Get(RequestIDHeader) == "" {
				t.Error("expected request id header")
			}
			tu.AssertFileExists(t, filepath.Join(cfg.UploadsDir, "track.mp3"))
		})

		t.Run("Fallback", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queue", nil))

			if rec.Body.String() != "index" {
				t.Errorf("expected index fallback, got %q", rec.Body.String())
			}
		})

		t.Run("Method Not Allowed", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/upload", nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status 405, got %d", rec.Code)
			}
		})
	})

	t.Run("Upload Rate Limited", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.UploadRate = 0.001
		cfg.UploadBurst = 1
		router := NewRouter(Options{Config: cfg})

		router.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "audioFile", "a.mp3", []byte("x")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "audioFile", "b.mp3", []byte("x")))

		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", rec.Code)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("Shuts Down On Cancel", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		srv := New(Options{Config: testConfig(t)})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- Run(ctx, srv, ln) }()

		resp, err := http.Post("http://"+ln.Addr().String()+"/api/upload", "text/plain", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", resp.StatusCode)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("Listen Failure", func(t *testing.T) {
		srv := &http.Server{Addr: "256.0.0.1:bad"}
		if err := Run(context.Background(), srv, nil); err == nil {
			t.Error("expected listen error")
		}
	})
}
