// Package upload implements the video ingestion pipeline: validation,
// local staging, media introspection, remote placement, and metadata
// commit, with the staging file released on every exit path.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/clipdeck/videos-service/internal/probe"
	"github.com/clipdeck/videos-service/internal/storage"
	"github.com/clipdeck/videos-service/internal/types"
)

// Stage names the pipeline states an ingestion moves through. An error
// carries the stage it failed at.
type Stage string

const (
	StageValidate Stage = "validate"
	StageStage    Stage = "stage"
	StageProbe    Stage = "probe"
	StagePlace    Stage = "place"
	StageCommit   Stage = "commit"
)

// StageError is an ingestion failure tagged with the stage it occurred
// in. Unwrap exposes the cause, so errors.As still finds a
// RejectionError from the validate stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Placer transfers a staged file into durable object storage. Reads of
// the key observe either nothing or the complete object, never a partial
// one.
type Placer interface {
	Upload(ctx context.Context, objectKey, filePath, contentType string) error
	MediaURL(objectKey string) string
}

// Ingestor runs the staged ingestion sequence for one upload at a time.
// Instances are safe for concurrent use; each call owns its own staging
// path.
type Ingestor struct {
	policy  Policy
	staging *Staging
	prober  probe.Prober
	placer  Placer
	store   storage.Storage
}

func NewIngestor(policy Policy, staging *Staging, prober probe.Prober, placer Placer, store storage.Storage) *Ingestor {
	return &Ingestor{
		policy:  policy,
		staging: staging,
		prober:  prober,
		placer:  placer,
		store:   store,
	}
}

// IngestVideo validates the upload, stages it, probes its aspect ratio,
// places it under "{class}/{videoID}{ext}" and commits the resulting URL
// to the video record. The caller must already have confirmed ownership.
// On success the video's VideoURL is updated in place and persisted.
func (ing *Ingestor) IngestVideo(ctx context.Context, video *types.Video, file io.Reader, header *multipart.FileHeader) (probe.AspectClass, error) {
	if err := ing.policy.Check(header); err != nil {
		return "", &StageError{Stage: StageValidate, Err: err}
	}

	contentType := header.Header.Get("Content-Type")
	ext := ExtForMediaType(contentType)

	path, err := ing.staging.Stash(video.ID, ext, file)
	if err != nil {
		return "", &StageError{Stage: StageStage, Err: err}
	}
	defer func() {
		if err := ing.staging.Remove(path); err != nil {
			slog.Warn("Failed to remove staging file",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}()

	result, err := ing.prober.Probe(ctx, path)
	if err != nil {
		return "", &StageError{Stage: StageProbe, Err: err}
	}
	class := result.Class()

	objectKey := fmt.Sprintf("%s/%s%s", class, video.ID, ext)
	if err := ing.placer.Upload(ctx, objectKey, path, contentType); err != nil {
		return "", &StageError{Stage: StagePlace, Err: err}
	}

	video.VideoURL = ing.placer.MediaURL(objectKey)
	if err := ing.store.UpdateVideo(video); err != nil {
		return "", &StageError{Stage: StageCommit, Err: err}
	}

	slog.Info("Video ingested",
		slog.String("video_id", video.ID),
		slog.String("aspect_class", string(class)),
		slog.String("object_key", objectKey))

	return class, nil
}
