package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// serveTemp writes data to a fresh file under the temp dir, serves it and
// removes it, whatever the outcome.
func (s *Server) serveTemp(w http.ResponseWriter, r *http.Request, name string, data []byte) error {
	path := filepath.Join(s.cfg.TempDir, "voronoi-"+uuid.NewString()+".png")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		f.Close()
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove temp file", "path", path, "err", err)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	http.ServeContent(w, r, name, time.Time{}, f)
	return nil
}
