package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/oauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/onboarding-feedback/config"
)

// refresh tokens stay valid for a year
const refreshTTL = 8760 * time.Hour

var errBadCredentials = errors.New("invalid credentials")

// TokenStore keeps track of issued refresh tokens.
type TokenStore interface {
	StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error
	ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) error
}

// adminVerifier accepts the single administrator configured at start-up.
type adminVerifier struct {
	username     string
	passwordHash []byte
	tokens       TokenStore
}

// NewBearerServer issues admin tokens for the configured credentials.
func NewBearerServer(cfg config.Config, tokens TokenStore) (*oauth.BearerServer, error) {
	verifier, err := AdminVerifier(cfg.AdminUser, cfg.AdminPassword, tokens)
	if err != nil {
		return nil, err
	}
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, verifier, nil), nil
}

func AdminVerifier(username, password string, tokens TokenStore) (oauth.CredentialsVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &adminVerifier{username, hash, tokens}, nil
}

func (v *adminVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	if username != v.username {
		return errBadCredentials
	}
	return bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))
}
func (v *adminVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return v.tokens.StoreToken(context.Background(), credential, tokenID, refreshTokenID, time.Now().Add(refreshTTL))
}
func (v *adminVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return v.tokens.ConsumeToken(context.Background(), credential, tokenID, refreshTokenID)
}
func (*adminVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{"roles": "admin"}, nil
}
func (*adminVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}
func (*adminVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
