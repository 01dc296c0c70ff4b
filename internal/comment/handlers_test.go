package comment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/comments"), svc, func(c *fiber.Ctx) error {
		c.Locals("user_id", "viewer")
		return c.Next()
	})
	return app
}

func TestCommentHandlersValidation(t *testing.T) {
	app := newApp(NewService(nil, nil, nil))

	// missing post_id on the thread listing
	req := httptest.NewRequest(http.MethodGet, "/comments/", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing post_id, got %d", resp.StatusCode)
	}

	// missing text on create
	req = httptest.NewRequest(http.MethodPost, "/comments/", bytes.NewReader([]byte(`{"post_id":"p1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing text, got %d", resp.StatusCode)
	}

	// missing text on update
	req = httptest.NewRequest(http.MethodPut, "/comments/c1", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", resp.StatusCode)
	}
}

func TestCommentCreateHandler(t *testing.T) {
	mock := newMock(t)
	expectPostAuthor(mock, "post-1", "author")
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(pgxmock.AnyArg(), "post-1", "viewer", "hello", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := newApp(NewService(mock, stubGate{ok: true}, nil))

	body, _ := json.Marshal(map[string]string{"post_id": "post-1", "text": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/comments/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %d", err, resp.StatusCode)
	}

	var created Comment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.AuthorID != "viewer" || created.Text != "hello" {
		t.Fatalf("unexpected comment %+v", created)
	}
}

func TestCommentCreateGatedIs404(t *testing.T) {
	mock := newMock(t)
	expectPostAuthor(mock, "post-1", "author")

	app := newApp(NewService(mock, stubGate{ok: false}, nil))

	body, _ := json.Marshal(map[string]string{"post_id": "post-1", "text": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/comments/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v %d", err, resp.StatusCode)
	}
}

func TestCommentUpdateForbidden(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, post_id, author_id, text, parent_id, created_at`).
		WithArgs("c1").
		WillReturnRows(commentRow("c1", "someone-else", time.Now()))

	app := newApp(NewService(mock, nil, nil))

	req := httptest.NewRequest(http.MethodPut, "/comments/c1", bytes.NewReader([]byte(`{"text":"edit"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v %d", err, resp.StatusCode)
	}
}

func TestCommentLikeHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, post_id, author_id, text, parent_id, created_at`).
		WithArgs("c1").
		WillReturnRows(commentRow("c1", "author", time.Now()))
	mock.ExpectExec(`INSERT INTO comment_likes`).
		WithArgs(pgxmock.AnyArg(), "c1", "viewer").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comment_likes`).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	app := newApp(NewService(mock, nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/comments/c1/like", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("like status: %v", err)
	}
}
