package web

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/metrics"
	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/utils"
)

// ThumbQuality is the JPEG quality of generated thumbnails
const ThumbQuality = 80

// handleThumb serves a JPEG thumbnail of an image inside the picker root
func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	abs, err := s.source.Abs(path)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	if !s.allowed(abs) {
		metrics.RecordPermissionDenied()
		http.Error(w, picker.MsgNoPermission, http.StatusForbidden)
		return
	}
	if !utils.IsImageFile(abs) {
		http.Error(w, "not an image", http.StatusUnsupportedMediaType)
		return
	}

	rc, err := s.source.Open(abs)
	if err != nil {
		metrics.RecordThumbnail(false)
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		logrus.Warnf("web: open %s: %v", abs, err)
		http.Error(w, picker.MsgCannotOpenPath, http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		metrics.RecordThumbnail(false)
		logrus.Debugf("web: decode %s: %v", abs, err)
		http.Error(w, "cannot decode image", http.StatusUnprocessableEntity)
		return
	}

	size := s.cfg.Server.ThumbSize
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=300")
	if err := imaging.Encode(w, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbQuality)); err != nil {
		metrics.RecordThumbnail(false)
		logrus.Debugf("web: encode thumbnail: %v", err)
		return
	}
	metrics.RecordThumbnail(true)
}

// allowed applies the picker's root boundary to abs, on the resolved path
// as well when the source resolves links
func (s *Server) allowed(abs string) bool {
	root, err := s.source.Abs(s.cfg.Picker.Root)
	if err != nil || !picker.Within(root, abs) {
		return false
	}

	resolver, ok := s.source.(picker.Resolver)
	if !ok {
		return true
	}
	resolvedRoot, err := resolver.Resolve(root)
	if err != nil {
		return false
	}
	resolved, err := resolver.Resolve(abs)
	if err != nil {
		// missing files are reported by Open
		return errors.Is(err, fs.ErrNotExist)
	}
	return picker.Within(resolvedRoot, resolved)
}
