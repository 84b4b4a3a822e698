package session

import (
	"context"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/pkg/clock"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

const (
	tokenKey       = "auth_token"
	tokenExpiryKey = "token_expiry"
)

type Account struct {
	ID    string
	Name  string
	Email string
}

// Store exposes the session material the auth layer leaves in local storage.
// The order core only consumes it; it never writes these keys.
type Store interface {
	Token() (string, bool)
	Account() (Account, bool)
}

type localSessionStore struct {
	logger  *logrus.Logger
	storage localstorage.Storage
	clock   clock.Clock
}

func NewLocalSessionStore(logger *logrus.Logger, storage localstorage.Storage, clk clock.Clock) Store {
	return &localSessionStore{
		logger:  logger,
		storage: storage,
		clock:   clk,
	}
}

// Token implements Store. The token is only considered present while its
// recorded absolute expiry has not passed.
func (s *localSessionStore) Token() (string, bool) {
	token, ok := s.storage.GetItem(tokenKey)
	if !ok || token == "" {
		return "", false
	}

	if raw, ok := s.storage.GetItem(tokenExpiryKey); ok {
		expiry, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && expiry <= s.clock.Now().UnixMilli() {
			return "", false
		}
	}

	return token, true
}

// Account implements Store. Claims are extracted without signature
// verification; the backend is the authority on token validity.
func (s *localSessionStore) Account() (Account, bool) {
	token, ok := s.Token()
	if !ok {
		return Account{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		s.logger.WithError(err).Warn("session token is not a parseable jwt")
		return Account{}, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Account{}, false
	}

	acc := Account{}
	if sub, err := claims.GetSubject(); err == nil {
		acc.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		acc.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		acc.Email = email
	}

	if acc.ID == "" && acc.Email == "" {
		return Account{}, false
	}

	return acc, true
}

type accountContextKey struct{}

func ContextWithAccount(ctx context.Context, acc Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, acc)
}

func GetAccountFromCtx(ctx context.Context) (Account, error) {
	acc, ok := ctx.Value(accountContextKey{}).(Account)
	if !ok {
		return Account{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "customer session is not found")
	}

	return acc, nil
}
