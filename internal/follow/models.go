package follow

import "time"

// Follow is a directed edge between two users.
type Follow struct {
	ID                string    `json:"id"`
	FollowerID        string    `json:"follower_id"`
	FollowerUsername  string    `json:"follower_username,omitempty"`
	FollowingID       string    `json:"following_id"`
	FollowingUsername string    `json:"following_username,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
