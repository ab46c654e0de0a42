package storage

import "github.com/clipdeck/videos-service/internal/types"

type Storage interface {
	CreateUser(email, password string) (string, error)
	GetUserByEmail(email string) (string, string, error)
	CreateVideo(userID, title, description string) (string, error)
	GetVideo(id string) (*types.Video, error)
	UpdateVideo(video *types.Video) error
	ListVideosForUser(userID string) ([]types.Video, error)
}
