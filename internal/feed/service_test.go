package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abby966/social-media-API/internal/post"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func feedRows(createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "author_id", "username", "content", "media_url", "created_at", "updated_at",
		"likes_count", "comments_count", "bookmarks_count", "is_liked", "is_bookmarked",
	}).AddRow("post-2", "user-2", "bob", "from a followed user", "", createdAt, createdAt, int64(0), int64(0), int64(0), false, false).
		AddRow("post-1", "user-1", "alice", "my own post", "", createdAt, createdAt, int64(1), int64(0), int64(0), false, false)
}

func TestComposeFeed(t *testing.T) {
	mock := newMock(t)

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT following_id FROM follows`).
		WithArgs("user-1", "", 20, 0).
		WillReturnRows(feedRows(createdAt))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WithArgs("user-1", "").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	svc := NewService(mock)
	posts, total, err := svc.Compose(context.Background(), "user-1", "", 20, 0)
	if err != nil {
		t.Fatalf("compose feed: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Fatalf("unexpected feed: total=%d posts=%+v", total, posts)
	}
	if posts[0].AuthorID != "user-2" || posts[1].AuthorID != "user-1" {
		t.Fatalf("feed should mix followed and own posts: %+v", posts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestComposeFeedWithQuery(t *testing.T) {
	mock := newMock(t)

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT following_id FROM follows`).
		WithArgs("user-1", "own", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "author_id", "username", "content", "media_url", "created_at", "updated_at",
			"likes_count", "comments_count", "bookmarks_count", "is_liked", "is_bookmarked",
		}).AddRow("post-1", "user-1", "alice", "my own post", "", createdAt, createdAt, int64(1), int64(0), int64(0), false, false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WithArgs("user-1", "own").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	svc := NewService(mock)
	posts, total, err := svc.Compose(context.Background(), "user-1", "own", 20, 0)
	if err != nil {
		t.Fatalf("compose feed: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("unexpected feed: %+v", posts)
	}
}

func TestComposeFeedQueryError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT following_id FROM follows`).
		WithArgs("user-1", "", 20, 0).
		WillReturnError(errFeed)

	svc := NewService(mock)
	if _, _, err := svc.Compose(context.Background(), "user-1", "", 20, 0); !errors.Is(err, errFeed) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestFeedHandler(t *testing.T) {
	mock := newMock(t)

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT following_id FROM follows`).
		WithArgs("user-1", "", 20, 0).
		WillReturnRows(feedRows(createdAt))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WithArgs("user-1", "").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	app := fiber.New()
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	RegisterRoutes(app.Group("/feed"), NewService(mock), asUser, 20)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("feed status: %v", err)
	}

	var envelope struct {
		Count   int64       `json:"count"`
		Results []post.Post `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Count != 2 || len(envelope.Results) != 2 {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

var errFeed = errors.New("feed error")
