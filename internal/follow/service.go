package follow

import (
	"context"
	"errors"

	"github.com/Abby966/social-media-API/internal/db"
	"github.com/Abby966/social-media-API/internal/notify"

	"github.com/google/uuid"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFound         = errors.New("follow relation not found")
)

type Service struct {
	db  db.Querier
	hub *notify.Hub
}

func NewService(db db.Querier, hub *notify.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Create adds the (follower, following) edge. A duplicate edge is a
// conflict, not a silent no-op like like/bookmark.
func (s *Service) Create(ctx context.Context, followerID, followingID string) (Follow, error) {
	if followerID == followingID {
		return Follow{}, ErrSelfFollow
	}

	f := Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO follows (id, follower_id, following_id)
		VALUES ($1,$2,$3)
		RETURNING created_at,
			(SELECT username FROM users WHERE id = $2),
			(SELECT username FROM users WHERE id = $3)
	`, f.ID, f.FollowerID, f.FollowingID)
	if err := row.Scan(&f.CreatedAt, &f.FollowerUsername, &f.FollowingUsername); err != nil {
		if db.IsUniqueViolation(err) {
			return Follow{}, ErrAlreadyFollowing
		}
		return Follow{}, err
	}

	s.hub.Emit(followingID, notify.Event{Type: "follow", ActorID: followerID})
	return f, nil
}

// Delete removes the caller's own edge by relation id.
func (s *Service) Delete(ctx context.Context, id, followerID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM follows WHERE id = $1 AND follower_id = $2
	`, id, followerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the caller's outgoing edges.
func (s *Service) List(ctx context.Context, followerID string) ([]Follow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.follower_id, fu.username, f.following_id, gu.username, f.created_at
		FROM follows f
		JOIN users fu ON fu.id = f.follower_id
		JOIN users gu ON gu.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, followerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []Follow
	for rows.Next() {
		var f Follow
		if err := rows.Scan(&f.ID, &f.FollowerID, &f.FollowerUsername, &f.FollowingID, &f.FollowingUsername, &f.CreatedAt); err != nil {
			return nil, err
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}
