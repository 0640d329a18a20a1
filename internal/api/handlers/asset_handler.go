package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sobran5883/tasks-management-dashboard/internal/client/storage"
	"github.com/sobran5883/tasks-management-dashboard/internal/uploader"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

type AssetHandler struct {
	store  storage.Uploader
	logger *logrus.Logger
}

func NewAssetHandler(store storage.Uploader, logger *logrus.Logger) *AssetHandler {
	return &AssetHandler{store: store, logger: logger}
}

// UploadAssets handles POST /api/assets. Files arrive as multipart parts
// named "assets", are screened up front, and go to object storage one at a
// time. The first transport failure abandons the remaining files; URLs
// already uploaded are reported but the batch fails as a whole.
func (h *AssetHandler) UploadAssets(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondMessage(w, http.StatusServiceUnavailable, "asset storage is not configured", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}

	q := uploader.NewQueue(h.store)
	for _, fh := range r.MultipartForm.File["assets"] {
		f, err := fh.Open()
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "unreadable file part", nil)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, uploader.MaxFileSize+1))
		f.Close()
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "unreadable file part", nil)
			return
		}
		if err := q.Add(uploader.File{
			Name: fh.Filename,
			Type: fh.Header.Get("Content-Type"),
			Data: data,
		}); err != nil {
			respondMessage(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}
	if q.Len() == 0 {
		respondMessage(w, http.StatusBadRequest, "no files in request", nil)
		return
	}

	urls, err := q.UploadAll(r.Context(), nil)
	if err != nil {
		var ue *uploader.UploadError
		if errors.As(err, &ue) {
			h.logger.WithFields(logrus.Fields{
				"file":     ue.FileName,
				"uploaded": len(ue.Uploaded),
			}).WithError(ue.Cause).Warn("asset upload aborted")
			respondMessage(w, http.StatusBadGateway, ue.Error(), map[string]any{"uploaded": ue.Uploaded})
			return
		}
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"status": true, "assets": urls})
}
