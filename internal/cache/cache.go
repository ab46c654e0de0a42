package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clipdeck/videos-service/internal/storage"
	"github.com/clipdeck/videos-service/internal/types"
)

// CacheService wraps storage with Redis caching for video lookups. The
// entry for a video is invalidated whenever the video is updated, so a
// freshly committed video URL is never shadowed by a stale read.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
}

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: storage,
		redis:   redisClient,
	}
}

// Cache key patterns
const (
	VideoKey    = "video:%s"       // video:videoID
	UserListKey = "videos:user:%s" // videos:user:userID
)

// Cache durations
const (
	VideoCacheDuration    = 10 * time.Minute
	UserListCacheDuration = 30 * time.Second
)

// GetVideo returns the cached video or fetches it from the database
func (c *CacheService) GetVideo(id string) (*types.Video, error) {
	ctx := context.Background()
	key := fmt.Sprintf(VideoKey, id)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var video types.Video
		if err := json.Unmarshal([]byte(cached), &video); err == nil {
			return &video, nil
		}
	}

	video, err := c.storage.GetVideo(id)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(video)
	c.redis.Set(ctx, key, data, VideoCacheDuration)

	return video, nil
}

// UpdateVideo persists the update and drops the cached entries so the
// next read observes the committed state.
func (c *CacheService) UpdateVideo(video *types.Video) error {
	if err := c.storage.UpdateVideo(video); err != nil {
		return err
	}

	ctx := context.Background()
	if err := c.redis.Del(ctx,
		fmt.Sprintf(VideoKey, video.ID),
		fmt.Sprintf(UserListKey, video.UserID),
	).Err(); err != nil {
		slog.Warn("Failed to invalidate video cache",
			slog.String("video_id", video.ID),
			slog.String("error", err.Error()))
	}

	return nil
}

// CreateVideo passes through and drops the owner's cached list
func (c *CacheService) CreateVideo(userID, title, description string) (string, error) {
	videoID, err := c.storage.CreateVideo(userID, title, description)
	if err != nil {
		return "", err
	}

	c.redis.Del(context.Background(), fmt.Sprintf(UserListKey, userID))

	return videoID, nil
}

// ListVideosForUser returns the cached list or fetches from the database
func (c *CacheService) ListVideosForUser(userID string) ([]types.Video, error) {
	ctx := context.Background()
	key := fmt.Sprintf(UserListKey, userID)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var videos []types.Video
		if err := json.Unmarshal([]byte(cached), &videos); err == nil {
			return videos, nil
		}
	}

	videos, err := c.storage.ListVideosForUser(userID)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(videos)
	c.redis.Set(ctx, key, data, UserListCacheDuration)

	return videos, nil
}

// CreateUser passes through to storage
func (c *CacheService) CreateUser(email, password string) (string, error) {
	return c.storage.CreateUser(email, password)
}

// GetUserByEmail passes through to storage
func (c *CacheService) GetUserByEmail(email string) (string, string, error) {
	return c.storage.GetUserByEmail(email)
}
