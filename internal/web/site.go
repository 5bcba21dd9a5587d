// Package web serves the widget page. Assets are embedded in the binary; in
// development they can be served from a directory instead and are reloaded
// when they change on disk.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/listenupapp/swatches/internal/logger"
)

// Layout shared by the embedded assets and a development directory.
const (
	pageTemplate = "index.html"
	staticDir    = "static"
)

//go:embed assets
var embedded embed.FS

// Site renders the widget page and serves its static assets.
type Site struct {
	files  fs.FS
	dir    string
	logger *logger.Logger

	mu   sync.RWMutex
	page *template.Template
}

// New creates a Site from the embedded assets, or from dir when it is set.
func New(dir string, log *logger.Logger) (*Site, error) {
	s := &Site{
		dir:    dir,
		logger: log.WithComponent("web"),
	}

	if dir == "" {
		sub, err := fs.Sub(embedded, "assets")
		if err != nil {
			return nil, fmt.Errorf("open embedded assets: %w", err)
		}
		s.files = sub
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("open web dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("web dir %s is not a directory", dir)
		}
		s.files = os.DirFS(dir)
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	s.logger.Info("Widget page loaded", "source", s.source())
	return s, nil
}

func (s *Site) source() string {
	if s.dir == "" {
		return "embedded"
	}
	return s.dir
}

// Dev reports whether assets come from a directory on disk.
func (s *Site) Dev() bool {
	return s.dir != ""
}

// Reload re-parses the page template. On failure the previous template stays
// in use.
func (s *Site) Reload() error {
	tmpl, err := template.New(pageTemplate).Funcs(funcs).ParseFS(s.files, pageTemplate)
	if err != nil {
		return fmt.Errorf("parse page template: %w", err)
	}

	s.mu.Lock()
	s.page = tmpl
	s.mu.Unlock()
	return nil
}

// Render writes the page for data.
func (s *Site) Render(w io.Writer, data PageData) error {
	s.mu.RLock()
	tmpl := s.page
	s.mu.RUnlock()

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Static serves the files under static/.
func (s *Site) Static() http.Handler {
	sub, err := fs.Sub(s.files, staticDir)
	if err != nil {
		// fs.Sub only fails for invalid names.
		panic(err)
	}
	h := http.FileServerFS(sub)
	if !s.Dev() {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		h.ServeHTTP(w, r)
	})
}

var funcs = template.FuncMap{
	// css marks a value already produced by the color package as safe inside
	// a style attribute.
	"css": func(s string) template.CSS { return template.CSS(s) },
}
