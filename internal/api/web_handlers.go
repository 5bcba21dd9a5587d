package api

import (
	"bytes"
	"net/http"

	"github.com/listenupapp/swatches/internal/http/response"
	"github.com/listenupapp/swatches/internal/web"
)

// handlePage renders the widget with the session's palette already drawn.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	state, err := s.palette.Get(r.Context(), sid)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	data := web.NewPageData(s.opts.Name, state, s.paletteBlurHash(state))

	// Render into a buffer so a template error still gets a clean 500.
	var buf bytes.Buffer
	if err := s.site.Render(&buf, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("failed to write page", "error", err)
	}
}
