package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	base := NewConflictError("slot_unavailable", "slot already booked")
	wrapped := fmt.Errorf("book: %w", base)

	if got := KindOf(wrapped); got != KindConflict {
		t.Fatalf("expected conflict, got %s", got)
	}
	if got := CodeOf(wrapped); got != "slot_unavailable" {
		t.Fatalf("expected code slot_unavailable, got %q", got)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("expected internal for plain error, got %s", got)
	}
}

func TestIntegrationErrorUnwraps(t *testing.T) {
	cause := errors.New("stripe down")
	err := NewIntegrationError("payment_failed", "payment intent failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected integration error to wrap its cause")
	}
}

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad", "bad input"), http.StatusBadRequest},
		{"conflict", NewConflictError("dup", "duplicate"), http.StatusConflict},
		{"forbidden", NewForbiddenError("nope", "not allowed"), http.StatusForbidden},
		{"not found", NewNotFoundError("missing", "missing"), http.StatusNotFound},
		{"integration", NewIntegrationError("ext", "external failed", nil), http.StatusBadGateway},
		{"plain", errors.New("secret detail"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tc.err)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == "secret detail" {
				t.Fatalf("internal error text leaked to client")
			}
		})
	}
}
