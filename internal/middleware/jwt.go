package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/reqctx"
	"blogplatform/internal/utils/helpers"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	errNoToken      = errors.New("missing bearer token")
	errBadPayload   = errors.New("invalid token payload")
	errWrongTokenTy = errors.New("not an access token")
)

// JWTAuth требует валидный access-токен и кладёт актора в контекст.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			actor, err := parseActor(r, secret)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или отсутствующий токен", zap.Error(err))
				if errors.Is(err, errNoToken) {
					helpers.Fail(w, http.StatusUnauthorized, "Access token is required")
					return
				}
				helpers.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := reqctx.WithActor(r.Context(), actor)
			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth распознаёт актора, если токен есть и валиден; иначе запрос идёт анонимно.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := parseActor(r, secret)
			if err != nil {
				if !errors.Is(err, errNoToken) {
					logger.WithCtx(r.Context()).Debug("OptionalAuth: токен проигнорирован", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(reqctx.WithActor(r.Context(), actor)))
		})
	}
}

func parseActor(r *http.Request, secret string) (models.Actor, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Anonymous, errNoToken
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Anonymous, err
	}
	if !token.Valid {
		return models.Anonymous, jwt.ErrTokenInvalidClaims
	}

	if tt, ok := claims["token_type"].(string); ok && tt != "access" {
		return models.Anonymous, errWrongTokenTy
	}

	userID, ok1 := claims["user_id"].(string)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 || userID == "" {
		return models.Anonymous, errBadPayload
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return models.Actor{ID: userID, Role: role, DisplayName: name, Email: email}, nil
}
