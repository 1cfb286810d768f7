package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogplatform/internal/models"
)

// GenerateToken выпускает access-токен для актора. Выдача сессий живёт вне сервиса,
// функция нужна для dev-окружения и тестов middleware.
func GenerateToken(secret string, actor models.Actor, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    actor.ID,
		"role":       actor.Role,
		"name":       actor.DisplayName,
		"email":      actor.Email,
		"token_type": "access",
		"exp":        now.Add(duration).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
