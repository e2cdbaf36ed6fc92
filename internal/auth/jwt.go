package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

// Claims binds the bearer to one seat of one game.
type Claims struct {
	GameID string `json:"game_id"`
	Seat   int    `json:"seat"`
	jwt.RegisteredClaims
}

// SeatManager issues and checks seat tokens.
type SeatManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewSeatManager creates a SeatManager signing with secret. Tokens expire
// after ttl.
func NewSeatManager(secret string, ttl time.Duration) *SeatManager {
	return &SeatManager{
		secret: []byte(secret),
		expiry: ttl,
		now:    time.Now,
	}
}

// GenerateSeatToken creates a token for seat in gameID.
func (m *SeatManager) GenerateSeatToken(gameID string, seat int) (string, error) {
	now := m.now()
	claims := &Claims{
		GameID: gameID,
		Seat:   seat,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%s/%d", gameID, seat),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a seat token, returning the claims.
func (m *SeatManager) ValidateToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.GameID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SeatTokens issues one token per seat of a new game.
func (m *SeatManager) SeatTokens(gameID string, seats []int) (map[int]string, error) {
	out := make(map[int]string, len(seats))
	for _, s := range seats {
		tok, err := m.GenerateSeatToken(gameID, s)
		if err != nil {
			return nil, fmt.Errorf("seat %d token: %w", s, err)
		}
		out[s] = tok
	}
	return out, nil
}
