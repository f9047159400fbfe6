package page

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func paramsFor(t *testing.T, target string) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = FromQuery(c, 20)
		return nil
	})
	if _, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil)); err != nil {
		t.Fatalf("test request: %v", err)
	}
	return got
}

func TestFromQueryDefaults(t *testing.T) {
	p := paramsFor(t, "/")
	if p.Limit != 20 || p.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestFromQueryExplicit(t *testing.T) {
	p := paramsFor(t, "/?limit=5&offset=15")
	if p.Limit != 5 || p.Offset != 15 {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestFromQueryClamps(t *testing.T) {
	p := paramsFor(t, "/?limit=9999&offset=-3")
	if p.Limit != maxLimit || p.Offset != 0 {
		t.Fatalf("unexpected clamped params: %+v", p)
	}
	p = paramsFor(t, "/?limit=-1")
	if p.Limit != 20 {
		t.Fatalf("negative limit should fall back to default")
	}
}
