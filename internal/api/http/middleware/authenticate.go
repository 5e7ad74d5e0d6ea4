package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/recipe-server/internal/api/http/render"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

const (
	msgMissingToken = "Authentication credentials were not provided."
	msgInvalidToken = "Invalid token."
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (int64, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handler rejects requests without a valid "Bearer" or "Token" authorization.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r.Header.Get("Authorization"))
		if tokenString == "" {
			unauthorized(w, msgMissingToken)
			return
		}

		userID, err := m.tokenService.GetUserID(r.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, model.ErrUnauthenticated) {
				m.logger.Error("Authenticate middleware: failed to resolve token",
					"error", err.Error())
				render.Detail(w, http.StatusInternalServerError, "internal server error")
				return
			}
			unauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserIDToContext(r.Context(), userID)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	render.Detail(w, http.StatusUnauthorized, message)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return ""
	}
	return strings.TrimSpace(token)
}
