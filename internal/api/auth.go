package api

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"study-planner/internal/model"
	"study-planner/internal/service"
)

const (
	appName        = "study-planner"
	contextKey     = "userToken"
	contextUserKey = "user"
)

// Claims represents the session claims transmitted via a JWT. The subject is the user id.
type Claims struct {
	jwt.StandardClaims
	Name string `json:"name,omitempty"`
}

type session struct {
	key []byte
	ttl time.Duration
}

func newSession(key []byte, ttl time.Duration) *session {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &session{key: key, ttl: ttl}
}

func (s *session) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    s.key,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextKey,
		Claims:        new(Claims),
	}
}

func (s *session) claims(usr *model.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    appName,
			Subject:   strconv.FormatUint(uint64(usr.ID), 10),
			ExpiresAt: now.Add(s.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name: usr.Name,
	}
}

// GenerateToken generates a signed JWT token string for the user.
func (s *session) GenerateToken(usr *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims(usr))
	ss, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser resolves the session user once per request.
func getContextUser(ctx echo.Context, svc *service.UserService) (*model.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(*model.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, errUnauthorized
	}

	usr, err := svc.Get(ctx.Request().Context(), uint(id))
	if errors.Is(err, model.ErrNotFound) {
		return nil, errUnauthorized
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
