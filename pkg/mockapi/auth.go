package mockapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Roles known to the API. Only admins may delete tickets.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var errBadCredentials = errors.New("bad credentials")

type user struct {
	hash []byte
	role string
}

// Users is a fixed set of accounts with bcrypt-hashed passwords.
type Users struct {
	byName map[string]user
}

// Account describes one user to register.
type Account struct {
	Username string
	Password string
	Role     string
}

// NewUsers hashes every account's password at the given bcrypt cost.
func NewUsers(cost int, accounts ...Account) (*Users, error) {
	u := &Users{byName: make(map[string]user, len(accounts))}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", a.Username, err)
		}
		u.byName[a.Username] = user{hash: hash, role: a.Role}
	}
	return u, nil
}

// Authenticate returns the role of username when password matches.
func (u *Users) Authenticate(username, password string) (string, error) {
	acct, ok := u.byName[username]
	if !ok {
		// Compare anyway so unknown users cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", errBadCredentials
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return "", errBadCredentials
	}
	return acct.role, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused"), bcrypt.MinCost)

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Sign issues a token for username valid for the configured TTL.
func (t Tokens) Sign(username, role string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(t.secret)
	return token, expires, err
}

// Parse verifies token and returns its claims.
func (t Tokens) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if c, ok := parsed.Claims.(*Claims); ok && parsed.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
