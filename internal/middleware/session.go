package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prawira/storefront/internal/config"
	"github.com/prawira/storefront/internal/constants"
	inHttp "github.com/prawira/storefront/internal/http"
	"github.com/prawira/storefront/internal/log"
	"github.com/prawira/storefront/internal/session"
)

const sessionCookie = "storefront_session"

// Session resolves the browsing session for every request. The session id
// comes from the cookie or the X-Session-Id header, a fresh one is minted for
// first-time visitors. A valid bearer token upgrades the session to an
// authenticated one, an absent or invalid token leaves it anonymous.
func Session(cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := r.Context()
			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Session").Logger()

			sessionID := sessionIDFromRequest(r)
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug().Str(log.KeySessionID, sessionID).Msg("minted new session")
			}

			sess := session.Session{ID: sessionID}
			userID, err := userIDFromBearer(r, cfg.SecretKey)
			if err != nil {
				logger.Debug().Err(err).Msg("request stays anonymous")
			} else if userID != uuid.Nil {
				sess.UserID = &userID
			}

			logger = logger.With().Str(log.KeySessionID, sess.ID).Logger()
			if sess.Authenticated() {
				logger = logger.With().Str(log.KeyUserID, sess.UserID.String()).Logger()
			}
			c = logger.WithContext(c)
			c = session.AttachToContext(c, sess)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get(inHttp.HeaderSessionID)
}

func userIDFromBearer(r *http.Request, secretKey string) (uuid.UUID, error) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return uuid.Nil, nil
	}
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return uuid.Nil, fmt.Errorf("authorization header is not a bearer token")
	}

	claims := jwt.RegisteredClaims{}
	jwtToken, err := jwt.ParseWithClaims(token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.AppStorefront),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing with claims with error=%w", err)
	}
	if !jwtToken.Valid {
		return uuid.Nil, fmt.Errorf("token is invalid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing subject=%s with error=%w", claims.Subject, err)
	}
	return userID, nil
}
