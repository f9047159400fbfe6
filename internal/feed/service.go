package feed

import (
	"context"

	"github.com/Abby966/social-media-API/internal/db"
	"github.com/Abby966/social-media-API/internal/post"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Compose returns the posts visible to userID: posts by followed authors
// plus the user's own, optionally restricted to a case-insensitive
// content substring, newest first, with the total count under the same
// filter. A user following nobody still sees their own posts.
func (s *Service) Compose(ctx context.Context, userID, query string, limit, offset int) ([]post.Post, int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+post.Columns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE (p.author_id = $1
		   OR p.author_id IN (SELECT following_id FROM follows WHERE follower_id = $1))
		  AND ($2 = '' OR p.content ILIKE '%' || $2 || '%')
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := post.Collect(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM posts p
		WHERE (p.author_id = $1
		   OR p.author_id IN (SELECT following_id FROM follows WHERE follower_id = $1))
		  AND ($2 = '' OR p.content ILIKE '%' || $2 || '%')
	`, userID, query).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
