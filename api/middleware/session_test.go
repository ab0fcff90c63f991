package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func sessionCapture(captured *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestCartSessionIssuesCookie(t *testing.T) {
	var captured uuid.UUID
	handler := CartSession(time.Hour, nil)(sessionCapture(&captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	if captured == uuid.Nil {
		t.Fatal("expected a session id in the request context")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one session cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != sessionCookieName || cookie.Value != captured.String() {
		t.Fatalf("expected cookie bound to the context id, got %+v", cookie)
	}
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Fatalf("expected http-only root-path cookie, got %+v", cookie)
	}
	if cookie.MaxAge != int(time.Hour/time.Second) {
		t.Fatalf("expected max age from ttl, got %d", cookie.MaxAge)
	}
}

func TestCartSessionReusesValidCookie(t *testing.T) {
	var captured uuid.UUID
	handler := CartSession(time.Hour, nil)(sessionCapture(&captured))

	existing := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: existing.String()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != existing {
		t.Fatalf("expected existing session reused, got %s", captured)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie for a valid session")
	}
}

func TestCartSessionReplacesMalformedCookie(t *testing.T) {
	var captured uuid.UUID
	handler := CartSession(time.Hour, nil)(sessionCapture(&captured))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-uuid"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured == uuid.Nil {
		t.Fatal("expected a fresh session id")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected a replacement cookie")
	}
}

func TestSessionIDFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SessionIDFromContext(req.Context()); got != uuid.Nil {
		t.Fatalf("expected nil id without middleware, got %s", got)
	}
}
