package thumbnails

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/clipdeck/videos-service/internal/events"
	"github.com/clipdeck/videos-service/internal/http/middleware"
	"github.com/clipdeck/videos-service/internal/storage"
	"github.com/clipdeck/videos-service/internal/upload"
	"github.com/clipdeck/videos-service/internal/utils/response"
)

// Handler serves the single-stage thumbnail path: policy check, local
// asset write under a random name, URL assignment.
type Handler struct {
	store     storage.Storage
	publisher events.Publisher
	policy    upload.Policy
	assetsDir string
	urlBase   string
}

func NewHandler(store storage.Storage, publisher events.Publisher, policy upload.Policy, assetsDir, urlBase string) *Handler {
	return &Handler{
		store:     store,
		publisher: publisher,
		policy:    policy,
		assetsDir: assetsDir,
		urlBase:   urlBase,
	}
}

// Upload stores a new thumbnail for an owned video
// @Summary Upload a thumbnail
// @Description Store a thumbnail image and link it to the video
// @Tags thumbnails
// @Accept multipart/form-data
// @Produce json
// @Param videoID path string true "Video ID"
// @Param thumbnail formData file true "Thumbnail image (jpeg or png)"
// @Success 200 {object} types.Video "Updated video"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Forbidden"
// @Failure 404 {object} response.Response "Not found"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /thumbnails/{videoID} [post]
func (h *Handler) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("videoID")
		if videoID == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid video ID")))
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		video, err := h.store.GetVideo(videoID)
		if errors.Is(err, sql.ErrNoRows) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("couldn't find video")))
			return
		} else if err != nil {
			slog.Error("Failed to get video", slog.String("video_id", videoID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to get video")))
			return
		}

		if video.UserID != userID {
			response.WriteJSON(w, http.StatusForbidden, response.GeneralError(errors.New("not authorized")))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.policy.MaxBytes+1<<20)

		file, header, err := r.FormFile("thumbnail")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("thumbnail file is missing")))
			return
		}
		defer file.Close()

		if err := h.policy.Check(header); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		contentType := header.Header.Get("Content-Type")
		filename, err := randomAssetName(upload.ExtForMediaType(contentType))
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to name thumbnail")))
			return
		}

		if err := h.writeAsset(filename, file); err != nil {
			slog.Error("Failed to store thumbnail", slog.String("video_id", videoID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to store thumbnail")))
			return
		}

		video.ThumbnailURL = h.urlBase + "/" + filename
		if err := h.store.UpdateVideo(video); err != nil {
			slog.Error("Failed to update video", slog.String("video_id", videoID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to update video")))
			return
		}

		h.publisher.PublishThumbnailUpdated(video.ID, video.UserID, video.ThumbnailURL)

		response.WriteJSON(w, http.StatusOK, video)
	}
}

func (h *Handler) writeAsset(filename string, src io.Reader) error {
	path := filepath.Join(h.assetsDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create asset file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write asset file: %w", err)
	}

	return f.Close()
}

func randomAssetName(ext string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf) + ext, nil
}
