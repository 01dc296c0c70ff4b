package notification

import (
	"context"
	"testing"
	"time"

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

func TestCreateNotification(t *testing.T) {
	mock := newMock(t)
	postID := "post-1"

	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), "sender", "recipient", TypeLike, &postID).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	n, err := svc.Create(context.Background(), "sender", "recipient", TypeLike, &postID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == "" || n.Type != TypeLike {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestListSweepsStaleFriendRequests(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	// the sweep runs before the read on every listing
	mock.ExpectExec(`DELETE FROM notifications n`).
		WithArgs("me").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery(`SELECT id, sender_id, recipient_id, type, post_id, is_read, created_at`).
		WithArgs("me").
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender_id", "recipient_id", "type", "post_id", "is_read", "created_at"}).
			AddRow("n1", "sender", "me", TypeFriendRequest, nil, false, now))

	svc := NewService(mock)
	out, err := svc.List(context.Background(), "me")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].Type != TypeFriendRequest {
		t.Fatalf("unexpected list %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE notifications SET is_read`).
		WithArgs("me").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	svc := NewService(mock)
	updated, err := svc.MarkAllRead(context.Background(), "me")
	if err != nil || updated != 3 {
		t.Fatalf("mark read: updated=%d err=%v", updated, err)
	}
}
