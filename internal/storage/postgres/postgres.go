package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/clipdeck/videos-service/internal/config"
	"github.com/clipdeck/videos-service/internal/types"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	pg := &Postgres{Db: db}
	err = pg.CreateTables()
	if err != nil {
		log.Fatal("Failed to create tables:", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS videos (
			id UUID PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			video_url TEXT,
			thumbnail_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) CreateUser(email, password string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRow(query, email, password).Scan(&userID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", userID), nil
}

func (p *Postgres) GetUserByEmail(email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `
	SELECT id, password FROM users WHERE email = $1
	`

	err := p.Db.QueryRow(query, email).Scan(&userID, &hashedPassword)
	if err != nil {
		return "", "", err
	}

	return fmt.Sprintf("%d", userID), hashedPassword, nil
}

func (p *Postgres) CreateVideo(userID, title, description string) (string, error) {
	videoID := uuid.NewString()
	query := `
	INSERT INTO videos (id, user_id, title, description)
	VALUES ($1, $2, $3, $4)
	`

	_, err := p.Db.Exec(query, videoID, userID, title, description)
	if err != nil {
		return "", err
	}

	return videoID, nil
}

// GetVideo returns the video row by id. Callers translate sql.ErrNoRows
// into their own not-found handling.
func (p *Postgres) GetVideo(id string) (*types.Video, error) {
	var video types.Video
	var videoURL, thumbnailURL sql.NullString

	query := `
	SELECT id, user_id, title, COALESCE(description, ''), video_url, thumbnail_url, created_at, updated_at
	FROM videos WHERE id = $1
	`

	err := p.Db.QueryRow(query, id).Scan(
		&video.ID, &video.UserID, &video.Title, &video.Description,
		&videoURL, &thumbnailURL, &video.CreatedAt, &video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	video.VideoURL = videoURL.String
	video.ThumbnailURL = thumbnailURL.String

	return &video, nil
}

func (p *Postgres) UpdateVideo(video *types.Video) error {
	query := `
	UPDATE videos
	SET title = $2, description = $3, video_url = NULLIF($4, ''), thumbnail_url = NULLIF($5, ''), updated_at = CURRENT_TIMESTAMP
	WHERE id = $1
	`

	result, err := p.Db.Exec(query, video.ID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (p *Postgres) ListVideosForUser(userID string) ([]types.Video, error) {
	query := `
	SELECT id, user_id, title, COALESCE(description, ''), video_url, thumbnail_url, created_at, updated_at
	FROM videos WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := p.Db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []types.Video
	for rows.Next() {
		var video types.Video
		var videoURL, thumbnailURL sql.NullString

		err := rows.Scan(
			&video.ID, &video.UserID, &video.Title, &video.Description,
			&videoURL, &thumbnailURL, &video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		video.VideoURL = videoURL.String
		video.ThumbnailURL = thumbnailURL.String
		videos = append(videos, video)
	}

	return videos, rows.Err()
}
