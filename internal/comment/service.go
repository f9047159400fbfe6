package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/Abby966/social-media-API/internal/db"
	"github.com/Abby966/social-media-API/internal/notify"

	"github.com/google/uuid"
)

const maxContentLen = 500

var (
	ErrEmptyContent   = errors.New("comment content cannot be empty")
	ErrContentTooLong = errors.New("comment content exceeds 500 characters")
	ErrNotFound       = errors.New("comment not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrNotOwner       = errors.New("not the author of this comment")
)

type Service struct {
	db  db.Querier
	hub *notify.Hub
}

func NewService(db db.Querier, hub *notify.Hub) *Service {
	return &Service{db: db, hub: hub}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if len(content) > maxContentLen {
		return ErrContentTooLong
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID, postID, content string) (Comment, error) {
	if err := validateContent(content); err != nil {
		return Comment{}, err
	}

	var authorID string
	if err := s.db.QueryRow(ctx, `
		SELECT author_id FROM posts WHERE id = $1
	`, postID).Scan(&authorID); err != nil {
		return Comment{}, ErrPostNotFound
	}

	cm := Comment{
		ID:      uuid.NewString(),
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, user_id, post_id, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at, (SELECT username FROM users WHERE id = $2)
	`, cm.ID, cm.UserID, cm.PostID, cm.Content)
	if err := row.Scan(&cm.CreatedAt, &cm.UpdatedAt, &cm.Username); err != nil {
		return Comment{}, err
	}

	s.hub.Emit(authorID, notify.Event{Type: "comment", ActorID: userID, PostID: postID, CommentID: cm.ID})
	return cm, nil
}

func (s *Service) Get(ctx context.Context, id string) (Comment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT c.id, c.user_id, u.username, c.post_id, c.content, c.created_at, c.updated_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id)

	var cm Comment
	if err := row.Scan(&cm.ID, &cm.UserID, &cm.Username, &cm.PostID, &cm.Content, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
		return Comment{}, ErrNotFound
	}
	return cm, nil
}

// List filters by owning post and content substring, newest first.
func (s *Service) List(ctx context.Context, postID, query string, limit, offset int) ([]Comment, int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.user_id, u.username, c.post_id, c.content, c.created_at, c.updated_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE ($1 = '' OR c.post_id = $1)
		  AND ($2 = '' OR c.content ILIKE '%' || $2 || '%')
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4
	`, postID, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.Username, &cm.PostID, &cm.Content, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, 0, err
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments c
		WHERE ($1 = '' OR c.post_id = $1)
		  AND ($2 = '' OR c.content ILIKE '%' || $2 || '%')
	`, postID, query).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *Service) Update(ctx context.Context, id, callerID, content string) (Comment, error) {
	if err := validateContent(content); err != nil {
		return Comment{}, err
	}
	if err := s.checkOwner(ctx, id, callerID); err != nil {
		return Comment{}, err
	}

	_, err := s.db.Exec(ctx, `
		UPDATE comments SET content = $2, updated_at = now() WHERE id = $1
	`, id, content)
	if err != nil {
		return Comment{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	if err := s.checkOwner(ctx, id, callerID); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func (s *Service) checkOwner(ctx context.Context, id, callerID string) error {
	var ownerID string
	err := s.db.QueryRow(ctx, `
		SELECT user_id FROM comments WHERE id = $1
	`, id).Scan(&ownerID)
	if err != nil {
		return ErrNotFound
	}
	if ownerID != callerID {
		return ErrNotOwner
	}
	return nil
}
