package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	seatTokenExpiry  = 12 * time.Hour
	bcryptCost       = 12
	secretLen        = 32
	secretSetting    = "jwt_secret"
	claimRateWindow  = 60 * time.Second
	maxClaimAttempts = 10
)

var (
	ErrSeatTaken   = errors.New("seat taken")
	ErrUnknownSeat = errors.New("unknown seat")
	ErrBadToken    = errors.New("invalid seat token")
	ErrBadPassword = errors.New("wrong seat password")
	ErrRateLimited = errors.New("too many claim attempts, try again later")
)

// SeatAuth signs seat reconnect tokens and checks the optional seat password
type SeatAuth struct {
	secret   []byte
	passHash []byte // nil = no password

	// Password attempts per IP
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	count   int
	resetAt time.Time
}

// NewSeatAuth creates a SeatAuth. An empty password disables the gate.
func NewSeatAuth(secret []byte, password string) (*SeatAuth, error) {
	a := &SeatAuth{secret: secret, rateMap: make(map[string]*rateEntry)}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("seat: hash password: %w", err)
		}
		a.passHash = hash
	}
	return a, nil
}

// HasPassword reports whether claims need a password
func (a *SeatAuth) HasPassword() bool {
	return a.passHash != nil
}

// CheckPassword validates a claim password
func (a *SeatAuth) CheckPassword(password string) error {
	if a.passHash == nil {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(password)); err != nil {
		return ErrBadPassword
	}
	return nil
}

// Allow counts a password attempt from ip and reports whether it is
// within the limit for the current window
func (a *SeatAuth) Allow(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.resetAt) {
		a.rateMap[ip] = &rateEntry{count: 1, resetAt: now.Add(claimRateWindow)}
		return true
	}
	entry.count++
	return entry.count <= maxClaimAttempts
}

// Issue returns a token that re-claims seat in session sid
func (a *SeatAuth) Issue(sid, seat string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid":  sid,
		"seat": seat,
		"exp":  now.Add(seatTokenExpiry).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify validates a token for session sid and returns the seat it grants
func (a *SeatAuth) Verify(tokenStr, sid string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrBadToken
	}
	if s, _ := claims["sid"].(string); s != sid {
		return "", fmt.Errorf("%w: issued for another session", ErrBadToken)
	}
	seat, ok := claims["seat"].(string)
	if !ok {
		return "", ErrBadToken
	}
	return seat, nil
}

// loadOrCreateSecret picks the signing secret: the hex flag value if given,
// else the one stored in db, else a fresh one persisted to db.
func loadOrCreateSecret(db *DB, flagHex string) ([]byte, error) {
	if flagHex != "" {
		b, err := hex.DecodeString(flagHex)
		if err != nil {
			return nil, fmt.Errorf("seat: decode -secret: %w", err)
		}
		return b, nil
	}
	if db != nil {
		if h := db.GetSetting(secretSetting); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == secretLen {
				return b, nil
			}
		}
	}

	secret := make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("seat: generate secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist seat secret: %v", err)
		}
	}
	return secret, nil
}
