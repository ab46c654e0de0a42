package events

import (
	"time"

	"github.com/clipdeck/videos-service/internal/types"
)

// Publisher interface for publishing ingestion events
type Publisher interface {
	PublishVideoUploaded(videoID, ownerID, videoURL, aspectClass string)
	PublishThumbnailUpdated(videoID, ownerID, thumbnailURL string)
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher pushes ingestion events to the owner's live connection
type EventPublisher struct {
	hub WebSocketHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishVideoUploaded notifies the owner that their upload has been
// placed and committed.
func (p *EventPublisher) PublishVideoUploaded(videoID, ownerID, videoURL, aspectClass string) {
	if !p.hub.IsUserConnected(ownerID) {
		return
	}

	eventData := &types.VideoUploadedEvent{
		VideoID:     videoID,
		VideoURL:    videoURL,
		AspectClass: aspectClass,
		UploadedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	p.hub.BroadcastToUser(ownerID, types.NewEvent(types.EventVideoUploaded, eventData))
}

// PublishThumbnailUpdated notifies the owner that a new thumbnail is live.
func (p *EventPublisher) PublishThumbnailUpdated(videoID, ownerID, thumbnailURL string) {
	if !p.hub.IsUserConnected(ownerID) {
		return
	}

	eventData := &types.ThumbnailUpdatedEvent{
		VideoID:      videoID,
		ThumbnailURL: thumbnailURL,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	p.hub.BroadcastToUser(ownerID, types.NewEvent(types.EventThumbnailUpdated, eventData))
}
