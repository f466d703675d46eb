package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leaveflow/internal/auth"
	autherrors "leaveflow/internal/auth/errors"
	"leaveflow/internal/policy"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeAuthService struct {
	loginFn   func(ctx context.Context, email, password string) (auth.LoginResponse, error)
	refreshFn func(ctx context.Context, refreshToken string) (auth.LoginResponse, error)
	meFn      func(ctx context.Context, actor policy.Actor) (auth.MeResponse, error)
	logoutFn  func(ctx context.Context, accessToken string) error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (auth.LoginResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}
func (f *fakeAuthService) Me(ctx context.Context, actor policy.Actor) (auth.MeResponse, error) {
	return f.meFn(ctx, actor)
}
func (f *fakeAuthService) Logout(ctx context.Context, accessToken string) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx, accessToken)
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (auth.LoginResponse, error) {
				assert.Equal(t, "dev@example.com", email)
				return auth.LoginResponse{
					AccessToken:  "access",
					RefreshToken: "refresh",
					User:         auth.Profile{ID: uuid.New().String(), Email: email},
				}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"dev@example.com","password":"secret123"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=access")
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (auth.LoginResponse, error) {
				return auth.LoginResponse{}, autherrors.ErrInvalidCredentials
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"dev@example.com","password":"nope12"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("passes bearer token and clears cookie", func(t *testing.T) {
		var gotToken string
		svc := &fakeAuthService{
			logoutFn: func(ctx context.Context, accessToken string) error {
				gotToken = accessToken
				return nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		c.Request.Header.Set("Authorization", "Bearer the-token")

		h.Logout(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "the-token", gotToken)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=")
	})
}
