package types

import "time"

// Video is the owned media entity the ingestion pipeline mutates. ID and
// UserID are assigned at creation and never change; VideoURL is written
// only after the uploaded object durably exists in remote storage.
type Video struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	VideoURL     string    `json:"video_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type VideoCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}
