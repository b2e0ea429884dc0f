package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode %s: %v", string(b), err)
	}
	return resp.StatusCode, out
}

func TestSuccess_MergesPayload(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, "Created", fiber.Map{"job": fiber.Map{"title": "Go"}})
	})

	status, body := decode(t, app, "/")
	if status != fiber.StatusCreated {
		t.Fatalf("unexpected status %d", status)
	}
	want := map[string]any{
		"success": true,
		"message": "Created",
		"job":     map[string]any{"title": "Go"},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestSuccess_OmitsEmptyMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Success(c, fiber.StatusOK, "", fiber.Map{"jobs": []string{}})
	})

	_, body := decode(t, app, "/")
	if _, ok := body["message"]; ok {
		t.Fatalf("expected no message key, got %v", body["message"])
	}
	if body["success"] != true {
		t.Fatalf("expected success=true")
	}
}

func TestError_DefaultsMessageAndStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Error(c, 42, "", "boom")
	})

	status, body := decode(t, app, "/")
	if status != fiber.StatusInternalServerError {
		t.Fatalf("unexpected status %d", status)
	}
	want := map[string]any{
		"success": false,
		"message": MessageInternalServerError,
		"details": "boom",
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}
