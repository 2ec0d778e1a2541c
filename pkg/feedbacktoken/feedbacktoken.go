package feedbacktoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Purpose назначение токена; токены с другим назначением отклоняются
const Purpose = "booking_feedback"

var (
	// ErrExpired возвращается, когда срок действия токена истек
	ErrExpired = errors.New("feedbacktoken: token expired")

	// ErrInvalid возвращается для поддельных, поврежденных или чужих токенов
	ErrInvalid = errors.New("feedbacktoken: token invalid")

	// ErrEmptySecret возвращается при создании Issuer без секрета
	ErrEmptySecret = errors.New("feedbacktoken: empty secret")
)

// Claims полезная нагрузка токена обратной связи
// Subject - ID бронирования
type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer выпускает и проверяет подписанные HS256 токены обратной связи
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer создает Issuer с секретом и временем жизни токена
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// TTL возвращает время жизни токена
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue выпускает токен для бронирования, действующий ttl от now
func (i *Issuer) Issue(bookingID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		Purpose: Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   bookingID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("feedbacktoken: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse проверяет подпись, назначение и срок действия токена относительно now
// Возвращает ID бронирования из Subject
func (i *Issuer) Parse(token string, now time.Time) (string, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if claims.Purpose != Purpose || claims.Subject == "" {
		return "", ErrInvalid
	}
	if !claims.VerifyExpiresAt(now, true) {
		return "", ErrExpired
	}

	return claims.Subject, nil
}
