package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestJWTAuthStripsSpoofedIdentityHeaders(t *testing.T) {
	// Token carries user_id but no session_id; the client's headers must
	// not survive into the request either way.
	token := signToken(t, jwt.MapClaims{"user_id": "u1"})

	var gotUser, gotSession string
	called := false
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		gotUser = string(ctx.Request.Header.Peek("X-User-ID"))
		gotSession = string(ctx.Request.Header.Peek("X-Session-ID"))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	ctx.Request.Header.Set("X-User-ID", "attacker")
	ctx.Request.Header.Set("X-Session-ID", "attacker-session")
	handler(&ctx)

	if !called {
		t.Fatal("next handler not invoked for a valid token")
	}
	if gotUser != "u1" {
		t.Fatalf("X-User-ID = %q, want u1", gotUser)
	}
	if gotSession != "" {
		t.Fatalf("X-Session-ID = %q, want empty", gotSession)
	}
}

func TestJWTAuthForwardsSessionClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"user_id": "u1", "session_id": "s1"})

	var gotSession string
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		gotSession = string(ctx.Request.Header.Peek("X-Session-ID"))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	handler(&ctx)

	if gotSession != "s1" {
		t.Fatalf("X-Session-ID = %q, want s1", gotSession)
	}
}

func TestJWTAuthRejectsMissingOrInvalidToken(t *testing.T) {
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("next handler invoked without a valid token")
	})

	var ctx fasthttp.RequestCtx
	handler(&ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), fasthttp.StatusUnauthorized)
	}

	var bad fasthttp.RequestCtx
	bad.Request.Header.Set("Authorization", "Bearer not-a-token")
	handler(&bad)
	if bad.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", bad.Response.StatusCode(), fasthttp.StatusUnauthorized)
	}
}
