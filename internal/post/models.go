package post

import "time"

type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	MediaURL       string    `json:"media_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LikesCount     int64     `json:"likes_count"`
	CommentsCount  int64     `json:"comments_count"`
	BookmarksCount int64     `json:"bookmarks_count"`
	IsLiked        bool      `json:"is_liked"`
	IsBookmarked   bool      `json:"is_bookmarked"`
}

// Like and Bookmark are edge rows: their only payload is existence and
// creation time.
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"user_username"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
