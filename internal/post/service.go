package post

import (
	"context"
	"errors"
	"strings"

	"github.com/Abby966/social-media-API/internal/db"
	"github.com/Abby966/social-media-API/internal/notify"

	"github.com/google/uuid"
)

var (
	ErrEmptyContent = errors.New("content is required")
	ErrNotFound     = errors.New("post not found")
	ErrNotOwner     = errors.New("not the author of this post")
)

// postColumns selects a post with its live counts and the viewer's own
// like/bookmark state. Counts are recomputed on every read, never cached.
const postColumns = `
	p.id, p.author_id, u.username, p.content, p.media_url, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	(SELECT COUNT(*) FROM bookmarks b WHERE b.post_id = p.id),
	EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1),
	EXISTS (SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.user_id = $1)`

type Service struct {
	db  db.Querier
	hub *notify.Hub
}

func NewService(db db.Querier, hub *notify.Hub) *Service {
	return &Service{db: db, hub: hub}
}

func (s *Service) Create(ctx context.Context, authorID, content, mediaURL string) (Post, error) {
	if strings.TrimSpace(content) == "" {
		return Post{}, ErrEmptyContent
	}

	p := Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  content,
		MediaURL: mediaURL,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, content, media_url)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at, (SELECT username FROM users WHERE id = $2)
	`, p.ID, p.AuthorID, p.Content, p.MediaURL)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt, &p.AuthorUsername); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id, viewerID string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $2
	`, viewerID, id)

	p, err := scanPost(row)
	if err != nil {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// List returns posts matching the optional author and content filters,
// newest first, plus the total count under the same filters.
func (s *Service) List(ctx context.Context, viewerID, authorID, query string, limit, offset int) ([]Post, int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE ($2 = '' OR p.author_id = $2)
		  AND ($3 = '' OR p.content ILIKE '%' || $3 || '%')
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`, viewerID, authorID, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM posts p
		WHERE ($1 = '' OR p.author_id = $1)
		  AND ($2 = '' OR p.content ILIKE '%' || $2 || '%')
	`, authorID, query).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Service) Update(ctx context.Context, id, callerID, content string) (Post, error) {
	if strings.TrimSpace(content) == "" {
		return Post{}, ErrEmptyContent
	}
	if err := s.checkOwner(ctx, id, callerID); err != nil {
		return Post{}, err
	}

	_, err := s.db.Exec(ctx, `
		UPDATE posts SET content = $2, updated_at = now() WHERE id = $1
	`, id, content)
	if err != nil {
		return Post{}, err
	}
	return s.Get(ctx, id, callerID)
}

func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	if err := s.checkOwner(ctx, id, callerID); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

// Like creates the (user, post) like edge. Liking an already-liked post
// is a no-op, reported via created=false. Concurrent duplicates resolve
// through the unique constraint.
func (s *Service) Like(ctx context.Context, postID, userID string) (Like, bool, error) {
	authorID, err := s.author(ctx, postID)
	if err != nil {
		return Like{}, false, err
	}

	var exists bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&exists)
	if err != nil {
		return Like{}, false, err
	}
	if exists {
		return Like{}, false, nil
	}

	like := Like{ID: uuid.NewString(), UserID: userID, PostID: postID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO likes (id, user_id, post_id)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, like.ID, like.UserID, like.PostID)
	if err := row.Scan(&like.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			// Lost the race to a concurrent like; same outcome.
			return Like{}, false, nil
		}
		return Like{}, false, err
	}
	s.hub.Emit(authorID, notify.Event{Type: "like", ActorID: userID, PostID: postID})
	return like, true, nil
}

// Unlike removes the like edge. A missing edge is reported as not found,
// not as success.
func (s *Service) Unlike(ctx context.Context, postID, userID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Likes(ctx context.Context, postID string) ([]Like, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.id, l.user_id, u.username, l.post_id, l.created_at
		FROM likes l JOIN users u ON u.id = l.user_id
		WHERE l.post_id = $1
		ORDER BY l.created_at DESC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []Like
	for rows.Next() {
		var l Like
		if err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.PostID, &l.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}
	return likes, nil
}

// Bookmark follows the same idempotent-toggle contract as Like on an
// independent edge set.
func (s *Service) Bookmark(ctx context.Context, postID, userID string) (Bookmark, bool, error) {
	if _, err := s.author(ctx, postID); err != nil {
		return Bookmark{}, false, err
	}

	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&exists)
	if err != nil {
		return Bookmark{}, false, err
	}
	if exists {
		return Bookmark{}, false, nil
	}

	bm := Bookmark{ID: uuid.NewString(), UserID: userID, PostID: postID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO bookmarks (id, user_id, post_id)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, bm.ID, bm.UserID, bm.PostID)
	if err := row.Scan(&bm.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return Bookmark{}, false, nil
		}
		return Bookmark{}, false, err
	}
	return bm, true, nil
}

func (s *Service) Unbookmark(ctx context.Context, postID, userID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Bookmarked lists the caller's bookmarked posts, most recently
// bookmarked first.
func (s *Service) Bookmarked(ctx context.Context, userID string, limit, offset int) ([]Post, int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+postColumns+`
		FROM bookmarks bm
		JOIN posts p ON p.id = bm.post_id
		JOIN users u ON u.id = p.author_id
		WHERE bm.user_id = $1
		ORDER BY bm.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookmarks WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// author resolves a post's author id, doubling as the existence check.
func (s *Service) author(ctx context.Context, id string) (string, error) {
	var authorID string
	err := s.db.QueryRow(ctx, `
		SELECT author_id FROM posts WHERE id = $1
	`, id).Scan(&authorID)
	if err != nil {
		return "", ErrNotFound
	}
	return authorID, nil
}

func (s *Service) checkOwner(ctx context.Context, id, callerID string) error {
	authorID, err := s.author(ctx, id)
	if err != nil {
		return err
	}
	if authorID != callerID {
		return ErrNotOwner
	}
	return nil
}
