package follow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
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

func TestCreateFollow(t *testing.T) {
	mock := newMock(t)

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO follows`).
		WithArgs(pgxmock.AnyArg(), "user-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "follower", "following"}).
			AddRow(createdAt, "alice", "bob"))

	svc := NewService(mock, nil)
	f, err := svc.Create(context.Background(), "user-1", "user-2")
	if err != nil {
		t.Fatalf("create follow: %v", err)
	}
	if f.FollowerUsername != "alice" || f.FollowingUsername != "bob" {
		t.Fatalf("unexpected follow: %+v", f)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateFollowSelf(t *testing.T) {
	svc := NewService(newMock(t), nil)
	if _, err := svc.Create(context.Background(), "user-1", "user-1"); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected self follow error, got %v", err)
	}
}

func TestCreateFollowDuplicate(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO follows`).
		WithArgs(pgxmock.AnyArg(), "user-1", "user-2").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	svc := NewService(mock, nil)
	if _, err := svc.Create(context.Background(), "user-1", "user-2"); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected already following, got %v", err)
	}
}

func TestDeleteFollow(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs("follow-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock, nil)
	if err := svc.Delete(context.Background(), "follow-1", "user-1"); err != nil {
		t.Fatalf("delete follow: %v", err)
	}
}

func TestDeleteFollowNotOwnEdge(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs("follow-1", "user-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	svc := NewService(mock, nil)
	if err := svc.Delete(context.Background(), "follow-1", "user-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFollows(t *testing.T) {
	mock := newMock(t)

	createdAt := time.Now()
	mock.ExpectQuery(`FROM follows f`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "follower_id", "follower", "following_id", "following", "created_at",
		}).AddRow("follow-1", "user-1", "alice", "user-2", "bob", createdAt).
			AddRow("follow-2", "user-1", "alice", "user-3", "carol", createdAt))

	svc := NewService(mock, nil)
	follows, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list follows: %v", err)
	}
	if len(follows) != 2 || follows[1].FollowingUsername != "carol" {
		t.Fatalf("unexpected follows: %+v", follows)
	}
}

func TestListFollowsQueryError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM follows f`).
		WithArgs("user-1").
		WillReturnError(errFollow)

	svc := NewService(mock, nil)
	if _, err := svc.List(context.Background(), "user-1"); !errors.Is(err, errFollow) {
		t.Fatalf("expected query error, got %v", err)
	}
}

var errFollow = errors.New("follow error")
