package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	out := map[string]interface{}{}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	return resp.StatusCode, out
}

func TestErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return ErrorResponse(c, "Transaction not found", fiber.StatusNotFound, "not_found")
	})

	code, body := decode(t, app, "/fail?x=1")
	if code != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
	if body["message"] != "Transaction not found" || body["error"] != "Transaction not found" {
		t.Errorf("unexpected message fields %v", body)
	}
	if body["ok"] != false || body["type"] != "not_found" || body["url"] != "/fail?x=1" {
		t.Errorf("unexpected body %v", body)
	}
	if body["status"] != float64(404) {
		t.Errorf("unexpected status field %v", body["status"])
	}
}

func TestMessageResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return MessageResponse(c, fiber.StatusCreated, "Transaction created successfully", fiber.Map{"transactionId": "t-1"})
	})
	app.Use(func(c *fiber.Ctx) error {
		return NotFoundResponse(c, "Not Found")
	})

	code, body := decode(t, app, "/ok")
	if code != fiber.StatusCreated {
		t.Errorf("expected 201, got %d", code)
	}
	if body["ok"] != true || body["transactionId"] != "t-1" || body["message"] != "Transaction created successfully" {
		t.Errorf("unexpected body %v", body)
	}

	code, body = decode(t, app, "/missing")
	if code != fiber.StatusNotFound || body["type"] != "not_found" {
		t.Errorf("expected not found body, got %d %v", code, body)
	}
}
