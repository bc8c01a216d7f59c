package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhive/account-service/internal/account/domain"
	"github.com/stellarhive/account-service/internal/account/dto"
	"github.com/stellarhive/account-service/internal/account/handler"
	"github.com/stellarhive/account-service/internal/account/service"
	"github.com/stellarhive/account-service/internal/mailer"
	"github.com/stellarhive/account-service/internal/mocks"
)

const testPassword = "pw12345678"

type testEnv struct {
	app    *fiber.App
	repo   *mocks.MockUserRepository
	tokens *service.TokenService
}

// newTestEnv wires the full route table with a real token codec, a mocked
// store and a mailer that only logs.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	tokens := service.NewTokenService("test-secret", 15, 7*24*60, 72)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUserService(repo, tokens, mailer.NewLogMailer(log), log)

	app := fiber.New()
	handler.RegisterRoutes(app,
		handler.NewAppHandler(users),
		handler.NewAuthHandler(users, tokens.RefreshTokenTTL()),
		handler.NewUserHandler(users),
	)

	return &testEnv{app: app, repo: repo, tokens: tokens}
}

func testUser() *domain.User {
	hash, err := service.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	return &domain.User{
		ID:           1,
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Smith",
		PasswordHash: hash,
		IsActive:     true,
	}
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest("POST", "/api/v1/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	return nil
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/api/v1/health-check", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success returns bearer token and refresh cookie", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()

		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
		env.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := env.app.Test(loginRequest(user.Email, testPassword))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody[dto.TokenResponse](t, resp)
		assert.Equal(t, "bearer", body.TokenType)

		userID, err := env.tokens.VerifyUserID(body.AccessToken, service.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)

		cookie := refreshCookie(resp)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		resp, err := env.app.Test(loginRequest(user.Email, "wrong-password"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, refreshCookie(resp))
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		resp, err := env.app.Test(loginRequest("ghost@example.com", testPassword))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(loginRequest("", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("valid cookie mints a new access token", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		refreshToken, err := env.tokens.IssueRefreshToken(user.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest("POST", "/api/v1/login/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshToken})

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody[dto.TokenResponse](t, resp)
		userID, err := env.tokens.VerifyUserID(body.AccessToken, service.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("missing cookie", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/login/refresh", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("access token in the cookie is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		accessToken, err := env.tokens.IssueAccessToken(1)
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/v1/login/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: accessToken})

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := refreshCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv(t)
		input := dto.RegisterInput{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Password: testPassword}

		env.repo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(nil, nil)
		env.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, u *domain.User) error {
				u.ID = 1
				return nil
			})

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/users/register", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := decodeBody[dto.UserOut](t, resp)
		assert.Equal(t, input.Email, body.Email)
		assert.Equal(t, "Alice Smith", body.FullName)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		input := dto.RegisterInput{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Password: testPassword}

		env.repo.EXPECT().FindByEmail(gomock.Any(), input.Email).Return(testUser(), nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/users/register", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("short password", func(t *testing.T) {
		env := newTestEnv(t)
		input := dto.RegisterInput{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Password: "short"}

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/users/register", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest("POST", "/api/v1/users/register", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestCurrentUserEndpoint(t *testing.T) {
	t.Run("access token resolves the account", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		accessToken, err := env.tokens.IssueAccessToken(user.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest("GET", "/api/v1/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody[dto.UserOut](t, resp)
		assert.Equal(t, user.Email, body.Email)
	})

	t.Run("refresh token is not a bearer credential", func(t *testing.T) {
		env := newTestEnv(t)
		refreshToken, err := env.tokens.IssueRefreshToken(1)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+refreshToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("GET", "/api/v1/users/current", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("inactive account", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		user.IsActive = false
		accessToken, err := env.tokens.IssueAccessToken(user.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest("GET", "/api/v1/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUpdatePasswordEndpoint(t *testing.T) {
	authed := func(env *testEnv, t *testing.T, user *domain.User, payload any) *http.Request {
		accessToken, err := env.tokens.IssueAccessToken(user.ID)
		require.NoError(t, err)
		req := jsonRequest("PUT", "/api/v1/users/current/password", payload)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		return req
	}

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		env.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := env.app.Test(authed(env, t, user, dto.UpdatePasswordInput{
			OldPassword:  testPassword,
			NewPassword1: "newpw123456",
			NewPassword2: "newpw123456",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("wrong old password", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		resp, err := env.app.Test(authed(env, t, user, dto.UpdatePasswordInput{
			OldPassword:  "wrong-password",
			NewPassword1: "newpw123456",
			NewPassword2: "newpw123456",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		resp, err := env.app.Test(authed(env, t, user, dto.UpdatePasswordInput{
			OldPassword:  testPassword,
			NewPassword1: "newpw123456",
			NewPassword2: "different123",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("list forbidden for regular users", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		accessToken, err := env.tokens.IssueAccessToken(user.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest("GET", "/api/v1/users/", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("list as superuser", func(t *testing.T) {
		env := newTestEnv(t)
		admin := testUser()
		admin.IsSuperuser = true
		accessToken, err := env.tokens.IssueAccessToken(admin.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), admin.ID).Return(admin, nil)
		env.repo.EXPECT().List(gomock.Any(), 100, 0).Return([]domain.User{*admin}, 1, nil)

		req := httptest.NewRequest("GET", "/api/v1/users/", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody[dto.UserPage](t, resp)
		assert.Equal(t, 1, body.Total)
		require.Len(t, body.Items, 1)
		assert.Equal(t, admin.Email, body.Items[0].Email)
	})

	t.Run("get unknown id", func(t *testing.T) {
		env := newTestEnv(t)
		admin := testUser()
		admin.IsSuperuser = true
		accessToken, err := env.tokens.IssueAccessToken(admin.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), admin.ID).Return(admin, nil)
		env.repo.EXPECT().FindByID(gomock.Any(), int64(99)).Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/v1/users/99", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestVerifyEmailEndpoint(t *testing.T) {
	t.Run("activates the account", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		user.IsActive = false
		token, err := env.tokens.IssueEmailToken(user.Email)
		require.NoError(t, err)

		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
		env.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/users/verify-email?token="+token, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("already verified is gone", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		token, err := env.tokens.IssueEmailToken(user.Email)
		require.NoError(t, err)

		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/users/verify-email?token="+token, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusGone, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/users/verify-email", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("access token is not an email token", func(t *testing.T) {
		env := newTestEnv(t)
		accessToken, err := env.tokens.IssueAccessToken(1)
		require.NoError(t, err)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/users/verify-email?token="+accessToken, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestResetPasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := testUser()
	token, err := env.tokens.IssueEmailToken(user.Email)
	require.NoError(t, err)

	env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	env.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	payload := dto.ResetPasswordInput{NewPassword1: "newpw123456", NewPassword2: "newpw123456"}
	resp, err := env.app.Test(jsonRequest("POST", "/api/v1/users/reset-password?token="+token, payload), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRemovalFlow(t *testing.T) {
	t.Run("request is accepted without deleting", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		accessToken, err := env.tokens.IssueAccessToken(user.ID)
		require.NoError(t, err)

		env.repo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest("DELETE", "/api/v1/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	})

	t.Run("confirmation deletes the account", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		token, err := env.tokens.IssueEmailToken(user.Email)
		require.NoError(t, err)

		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
		env.repo.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)

		resp, err := env.app.Test(httptest.NewRequest("POST", "/api/v1/users/verify-delete?token="+token, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}

func TestResendVerificationEndpoint(t *testing.T) {
	t.Run("sends for inactive accounts", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		user.IsActive = false

		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/resend-verification", dto.EmailInput{Email: user.Email}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/resend-verification", dto.EmailInput{Email: "ghost@example.com"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("already verified", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/resend-verification", dto.EmailInput{Email: user.Email}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusGone, resp.StatusCode)
	})
}

func TestRecoverPasswordEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		user := testUser()
		env.repo.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/password-recovery", dto.EmailInput{Email: user.Email}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("invalid email", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.app.Test(jsonRequest("POST", "/api/v1/password-recovery", dto.EmailInput{Email: "not-an-email"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}
