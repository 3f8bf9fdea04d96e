package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/voronoi/pkg/errors"
)

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.form.Execute(w, defaultFormData()); err != nil {
		s.logger.Error("render form", "err", err)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed form"))
		return
	}
	opts, err := ParseForm(r.PostForm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := "voronoi.png"
	if opts.Filename != "" {
		name = opts.Filename + ".png"
		w.Header().Set("Content-Disposition", `inline; filename="`+name+`"`)
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Voronoi-Seed", strconv.FormatUint(res.Seed, 10))

	if err := s.serveTemp(w, r, name, res.PNG); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeError maps err to a status. Client errors carry their message;
// server errors are logged and answered generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = http.StatusText(status)
	}
	w.Header().Del("Content-Disposition")
	w.Header().Del("X-Voronoi-Seed")
	http.Error(w, msg, status)
}
