package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"text/template"
	"time"
)

type Server struct {
	srv  *http.Server
	addr net.Addr
}

// Addr is the address actually listened on.
func (s *Server) Addr() net.Addr { return s.addr }

// Start listens on addr and serves the status page until ctx is done.
func Start(ctx context.Context, addr string, provider func() Data) (*Server, error) {
	if addr == "" {
		return nil, fmt.Errorf("status addr is empty")
	}

	h, err := NewHandler(provider)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("status listen %s: %w", addr, err)
	}

	s := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ss := &Server{srv: s, addr: ln.Addr()}

	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	go func() {
		if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("status server stopped", "err", err)
		}
	}()
	return ss, nil
}

// NewHandler returns the status page handler.
func NewHandler(provider func() Data) (http.Handler, error) {
	tmpl, err := loadTemplate()
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		serveStatus(w, r, tmpl, provider)
	})
	return mux, nil
}

func serveStatus(w http.ResponseWriter, r *http.Request, tmpl *template.Template, provider func() Data) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var data Data
	if provider != nil {
		data = provider()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "Status Template Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, ensureCRLF(buf.String()))
}

func ensureCRLF(s string) string {
	// Convert lone LF into CRLF; keep existing CRLF as-is.
	if !strings.Contains(s, "\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
