package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-vending-machine/internal/core/auth"
)

func newAuthedRouter(t *testing.T, j *auth.JWTer, requireRole string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", AuthJWT(j, requireRole), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("userId"),
			"role":   c.GetString("role"),
		})
	})
	return r
}

func TestAuthJWTStoresCallerIdentity(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "vending", TTL: time.Hour}
	r := newAuthedRouter(t, j, "")

	tok, err := j.Issue("u1", "BUYER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["userId"] != "u1" || got["role"] != "BUYER" {
		t.Fatalf("context identity = %v, want u1/BUYER", got)
	}
}

func TestAuthJWTRejectsBadTokens(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "vending", TTL: time.Hour}
	r := newAuthedRouter(t, j, "")

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var body struct {
				Code int `json:"code"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Code != 401 {
				t.Fatalf("code = %d, want 401", body.Code)
			}
		})
	}
}

func TestAuthJWTRoleScopedListener(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "vending", TTL: time.Hour}
	r := newAuthedRouter(t, j, "SELLER")

	tok, err := j.Issue("u1", "BUYER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != 403 || body.Msg != "Forbidden resource" {
		t.Fatalf("got %d %q, want 403 \"Forbidden resource\"", body.Code, body.Msg)
	}
}
