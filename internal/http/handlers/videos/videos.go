package videos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clipdeck/videos-service/internal/events"
	"github.com/clipdeck/videos-service/internal/http/middleware"
	mediaService "github.com/clipdeck/videos-service/internal/services/media"
	"github.com/clipdeck/videos-service/internal/storage"
	"github.com/clipdeck/videos-service/internal/types"
	"github.com/clipdeck/videos-service/internal/upload"
	"github.com/clipdeck/videos-service/internal/utils/response"
)

// CreateVideo handles creating a new video record
// @Summary Create a video
// @Description Create a draft video record to upload a file against
// @Tags videos
// @Accept json
// @Produce json
// @Param video body types.VideoCreateRequest true "Video details"
// @Success 201 {object} map[string]string "Video created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /videos [post]
func CreateVideo(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req types.VideoCreateRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		err = validate.Struct(req)
		if err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		videoID, err := storage.CreateVideo(userID, req.Title, req.Description)
		if err != nil {
			slog.Error("Failed to create video", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to create video")))
			return
		}
		slog.Info("Video created", slog.String("video_id", videoID), slog.String("user_id", userID))

		response.WriteJSON(w, http.StatusCreated, map[string]string{
			"id": videoID,
		})
	}
}

// ListVideos returns the authenticated user's videos
// @Summary List videos
// @Tags videos
// @Produce json
// @Success 200 {array} types.Video "Videos"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /videos [get]
func ListVideos(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		videos, err := storage.ListVideosForUser(userID)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list videos")))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Videos fetched successfully", videos))
	}
}

// getOwnedVideo loads the video and enforces the ownership precondition
// shared by every mutating endpoint. It writes the error response itself
// and returns nil when the caller should stop.
func getOwnedVideo(w http.ResponseWriter, r *http.Request, store storage.Storage) *types.Video {
	videoID := r.PathValue("videoID")
	if videoID == "" {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid video ID")))
		return nil
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
		return nil
	}

	video, err := store.GetVideo(videoID)
	if errors.Is(err, sql.ErrNoRows) {
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("couldn't find video")))
		return nil
	} else if err != nil {
		slog.Error("Failed to get video", slog.String("video_id", videoID), slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to get video")))
		return nil
	}

	if video.UserID != userID {
		response.WriteJSON(w, http.StatusForbidden, response.GeneralError(errors.New("not authorized")))
		return nil
	}

	return video
}

// GetVideo returns a single owned video
// @Summary Get a video
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} types.Video "Video"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Forbidden"
// @Failure 404 {object} response.Response "Not found"
// @Security BearerAuth
// @Router /videos/{videoID} [get]
func GetVideo(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video := getOwnedVideo(w, r, storage)
		if video == nil {
			return
		}

		response.WriteJSON(w, http.StatusOK, video)
	}
}

// Upload runs the ingestion pipeline for a video file
// @Summary Upload a video file
// @Description Validate, stage, probe and place the uploaded file, then commit its URL
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param videoID path string true "Video ID"
// @Param video formData file true "Video file (mp4)"
// @Success 200 {object} types.Video "Updated video"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Forbidden"
// @Failure 404 {object} response.Response "Not found"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /videos/{videoID} [post]
func Upload(store storage.Storage, ingestor *upload.Ingestor, publisher events.Publisher, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video := getOwnedVideo(w, r, store)
		if video == nil {
			return
		}

		// Cap the request body a little above the policy ceiling so a
		// client lying about its size cannot spool unbounded bytes; the
		// policy itself still decides acceptance.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)

		file, header, err := r.FormFile("video")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("video file is missing")))
			return
		}
		defer file.Close()

		class, err := ingestor.IngestVideo(r.Context(), video, file, header)
		if err != nil {
			var rejection *upload.RejectionError
			if errors.As(err, &rejection) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(rejection))
				return
			}

			slog.Error("Video ingestion failed",
				slog.String("video_id", video.ID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to process video upload")))
			return
		}

		publisher.PublishVideoUploaded(video.ID, video.UserID, video.VideoURL, string(class))

		response.WriteJSON(w, http.StatusOK, video)
	}
}

// DownloadURL hands out a presigned URL for the placed object
// @Summary Get a presigned download URL
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Param expires query int false "Expiration time in seconds (default: 3600)"
// @Success 200 {object} map[string]interface{} "Download URL"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Forbidden"
// @Failure 404 {object} response.Response "Not found"
// @Security BearerAuth
// @Router /videos/{videoID}/download-url [get]
func DownloadURL(store storage.Storage, media *mediaService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video := getOwnedVideo(w, r, store)
		if video == nil {
			return
		}

		if video.VideoURL == "" {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("video has no uploaded file")))
			return
		}

		objectKey, err := media.ObjectKeyFromURL(video.VideoURL)
		if err != nil {
			slog.Error("Failed to derive object key", slog.String("video_id", video.ID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate download URL")))
			return
		}

		expires := 3600
		if expiresParam := r.URL.Query().Get("expires"); expiresParam != "" {
			if parsed, err := strconv.Atoi(expiresParam); err == nil && parsed > 0 {
				expires = parsed
			}
		}

		downloadURL, err := media.PresignedDownloadURL(r.Context(), objectKey, time.Duration(expires)*time.Second)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate download URL")))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"video_id":     video.ID,
			"download_url": downloadURL.String(),
			"expires_at":   time.Now().Add(time.Duration(expires) * time.Second).Unix(),
		})
	}
}
