package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
)

func TestUserApi_login(t *testing.T) {
	app := setup(t)

	code, body := app.do(t, http.MethodPost, "/login", "", echo.Map{"name": " kim "})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["ok"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// the token parses back to the user id with a unique jti
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.Equal(t, "kim", claims.Name)
	assert.NotEmpty(t, claims.Id)
	assert.Equal(t, "study-planner", claims.Issuer)

	code, body = app.do(t, http.MethodPost, "/login", "", echo.Map{"name": "kim"})
	assert.Equal(t, http.StatusOK, code)
	assert.NotEqual(t, token, body["token"])

	code, body = app.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	usr := body["user"].(map[string]interface{})
	assert.Equal(t, "kim", usr["name"])
}

func TestUserApi_auth(t *testing.T) {
	app := setup(t)
	_, token := app.login(t, "kim")

	expired := func() string {
		claims := app.session.claims(&model.User{ID: 1, Name: "kim"})
		claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
		ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return ss
	}()
	ghost, err := app.session.GenerateToken(&model.User{ID: 99, Name: "ghost"})
	require.NoError(t, err)

	tests := []httpTest{
		{
			name: "missing token", method: http.MethodGet, path: "/me", wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, echo.Map{"ok": false, "error": "missing or malformed jwt"}),
		},
		{
			name: "garbage token", method: http.MethodGet, path: "/plans", token: "abc", wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, echo.Map{"ok": false, "error": "invalid or expired jwt"}),
		},
		{name: "expired token", method: http.MethodGet, path: "/plans", token: expired, wantCode: http.StatusUnauthorized},
		{
			name: "unknown user", method: http.MethodGet, path: "/me", token: ghost, wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, echo.Map{"ok": false, "error": "user not authenticated"}),
		},
		{
			name: "blank name", method: http.MethodPost, path: "/login", body: []byte(`{"name":"  "}`), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, echo.Map{"ok": false, "error": "invalid input", "fields": echo.Map{"name": "this field cannot be blank"}}),
		},
		{name: "malformed body", method: http.MethodPost, path: "/login", body: []byte(`{"name":`), wantCode: http.StatusBadRequest},
		{name: "valid token", method: http.MethodGet, path: "/me", token: token, wantCode: http.StatusOK},
		{
			name: "link telegram", method: http.MethodPut, path: "/me/telegram", token: token, body: []byte(`{"chat_id":42}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	usr, err := app.users.GetByTelegramChat(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "kim", usr.Name)
}
