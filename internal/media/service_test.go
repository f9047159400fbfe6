package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Abby966/social-media-API/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignedPutObject(_ context.Context, bucket, key string, _ time.Duration) (*url.URL, error) {
	if f.err != nil {
		return nil, f.err
	}
	return url.Parse("http://minio.local/" + bucket + "/" + key + "?signature=abc")
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func configuredService(mock pgxmock.PgxPoolIface, presigner Presigner) *Service {
	return &Service{
		db:        mock,
		presigner: presigner,
		endpoint:  "minio.local:9000",
		bucket:    "media",
	}
}

func TestCreateUpload(t *testing.T) {
	mock := newMock(t)

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO media_objects`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), "image/png").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := configuredService(mock, &fakePresigner{})
	obj, err := svc.CreateUpload(context.Background(), "user-1", "cat.png", "image/png")
	if err != nil {
		t.Fatalf("create upload: %v", err)
	}
	if obj.UploadURL == "" || obj.ExpiresAt.IsZero() {
		t.Fatalf("missing presign fields: %+v", obj)
	}
	if !strings.HasSuffix(obj.Key, "/cat.png") {
		t.Fatalf("unexpected key: %s", obj.Key)
	}
	if obj.URL != "http://minio.local:9000/media/"+obj.Key {
		t.Fatalf("unexpected public url: %s", obj.URL)
	}
}

func TestCreateUploadStripsPath(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO media_objects`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), "image/png").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := configuredService(mock, &fakePresigner{})
	obj, err := svc.CreateUpload(context.Background(), "user-1", "../../etc/passwd.png", "image/png")
	if err != nil {
		t.Fatalf("create upload: %v", err)
	}
	if strings.Contains(obj.Key, "..") {
		t.Fatalf("key should not carry path segments: %s", obj.Key)
	}
}

func TestCreateUploadNotConfigured(t *testing.T) {
	svc, err := NewService(newMock(t), config.Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.CreateUpload(context.Background(), "user-1", "cat.png", "image/png"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestCreateUploadPresignError(t *testing.T) {
	svc := configuredService(newMock(t), &fakePresigner{err: errMedia})

	if _, err := svc.CreateUpload(context.Background(), "user-1", "cat.png", "image/png"); !errors.Is(err, errMedia) {
		t.Fatalf("expected presign error, got %v", err)
	}
}

func TestPublicURLSSL(t *testing.T) {
	svc := &Service{endpoint: "https://minio.example.com", bucket: "media", useSSL: true}
	if got := svc.publicURL("k/v.png"); got != "https://minio.example.com/media/k/v.png" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestUploadHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO media_objects`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), "image/png").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	passThrough := func(c *fiber.Ctx) error { return c.Next() }
	RegisterRoutes(app.Group("/media"), configuredService(mock, &fakePresigner{}), asUser, passThrough)

	body, _ := json.Marshal(map[string]string{"file_name": "cat.png", "content_type": "image/png"})
	req := httptest.NewRequest(http.MethodPost, "/media/uploads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status: %v %d", err, resp.StatusCode)
	}

	var obj Object
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if obj.UploadURL == "" {
		t.Fatalf("missing upload url: %+v", obj)
	}
}

func TestUploadHandlerUnconfigured(t *testing.T) {
	svc, err := NewService(newMock(t), config.Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	app := fiber.New()
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	passThrough := func(c *fiber.Ctx) error { return c.Next() }
	RegisterRoutes(app.Group("/media"), svc, asUser, passThrough)

	body, _ := json.Marshal(map[string]string{"file_name": "cat.png"})
	req := httptest.NewRequest(http.MethodPost, "/media/uploads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

var errMedia = errors.New("media error")
