package middleware

import (
	"net/http"

	"github.com/ali25developer/Kartcis-sub000/internal/pkg/session"
	"github.com/ali25developer/Kartcis-sub000/pkg/response"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type CustomerSession struct {
	session session.Store
}

func NewCustomerSessionMiddleware(sessionStore session.Store) *CustomerSession {
	return &CustomerSession{
		session: sessionStore,
	}
}

// Attach populates the request context with the customer account when a
// session exists, and lets the request through either way. Pending payments
// must stay reachable after logout.
func (m *CustomerSession) Attach(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if acc, ok := m.session.Account(); ok {
			r = r.WithContext(session.ContextWithAccount(r.Context(), acc))
		}

		next(w, r)
	}
}

// Verify rejects the request when no customer session exists.
func (m *CustomerSession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := m.session.Account()
		if !ok {
			response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
				Status:  status.UNAUTHORIZED,
				Message: "customer session is not found",
			})

			return
		}

		next(w, r.WithContext(session.ContextWithAccount(r.Context(), acc)))
	}
}
