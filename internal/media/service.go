package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Abby966/social-media-API/internal/config"
	"github.com/Abby966/social-media-API/internal/db"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const uploadTTL = 15 * time.Minute

var ErrNotConfigured = errors.New("media storage not configured")

// Presigner is the slice of the minio client the service needs.
type Presigner interface {
	PresignedPutObject(ctx context.Context, bucket, key string, expires time.Duration) (*url.URL, error)
}

type Object struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	UploadURL   string    `json:"upload_url,omitempty"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Service struct {
	db        db.Querier
	presigner Presigner
	endpoint  string
	bucket    string
	useSSL    bool
}

func NewService(database db.Querier, cfg config.Config) (*Service, error) {
	s := &Service{
		db:       database,
		endpoint: cfg.MinioEndpoint,
		bucket:   cfg.MinioBucket,
		useSSL:   cfg.MinioUseSSL,
	}
	if cfg.MinioEndpoint == "" {
		return s, nil
	}

	client, err := minio.New(strings.TrimPrefix(cfg.MinioEndpoint, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	s.presigner = client
	return s, nil
}

// CreateUpload issues a presigned PUT URL and records the object. The
// public URL is what clients set as a post's media_url.
func (s *Service) CreateUpload(ctx context.Context, userID, fileName, contentType string) (Object, error) {
	if s.presigner == nil {
		return Object{}, ErrNotConfigured
	}

	obj := Object{
		ID:          uuid.NewString(),
		UserID:      userID,
		ContentType: contentType,
	}
	obj.Key = obj.ID + "/" + path.Base(fileName)
	obj.URL = s.publicURL(obj.Key)

	signed, err := s.presigner.PresignedPutObject(ctx, s.bucket, obj.Key, uploadTTL)
	if err != nil {
		return Object{}, err
	}
	obj.UploadURL = signed.String()
	obj.ExpiresAt = time.Now().Add(uploadTTL)

	row := s.db.QueryRow(ctx, `
		INSERT INTO media_objects (id, user_id, object_key, url, content_type)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, obj.ID, obj.UserID, obj.Key, obj.URL, obj.ContentType)
	if err := row.Scan(&obj.CreatedAt); err != nil {
		return Object{}, err
	}
	return obj, nil
}

func (s *Service) publicURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	host := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, host, s.bucket, key)
}
