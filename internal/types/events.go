package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventVideoUploaded    EventType = "video.uploaded"
	EventThumbnailUpdated EventType = "thumbnail.updated"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// VideoUploadedEvent is sent to the owner when an upload has been placed
// in remote storage and committed to the video record.
type VideoUploadedEvent struct {
	VideoID     string `json:"video_id"`
	VideoURL    string `json:"video_url"`
	AspectClass string `json:"aspect_class"`
	UploadedAt  string `json:"uploaded_at"`
}

// ThumbnailUpdatedEvent is sent to the owner when a new thumbnail has
// been stored and linked.
type ThumbnailUpdatedEvent struct {
	VideoID      string `json:"video_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	UpdatedAt    string `json:"updated_at"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
