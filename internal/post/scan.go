package post

import "github.com/jackc/pgx/v5"

// Columns is the shared select list for reading posts with live counts;
// $1 is the viewer id. The feed composer reuses it.
const Columns = postColumns

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.AuthorUsername, &p.Content, &p.MediaURL,
		&p.CreatedAt, &p.UpdatedAt,
		&p.LikesCount, &p.CommentsCount, &p.BookmarksCount,
		&p.IsLiked, &p.IsBookmarked,
	)
	return p, err
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Collect scans a result set produced with Columns.
func Collect(rows pgx.Rows) ([]Post, error) {
	return collectPosts(rows)
}
