package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"buschat/internal/store"
	"buschat/internal/utils"
)

const (
	sessionCookie = "buschat_session"
	sessionKey    = "session_state"
	sessionTTL    = 30 * 24 * time.Hour
)

// Session binds each browser to its gateway state via a signed cookie. A
// missing or invalid cookie gets a fresh anonymous session rather than an
// error; authentication is checked per-handler, not here.
func Session(secret []byte, registry *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var state *store.SessionState

		if raw, err := c.Cookie(sessionCookie); err == nil {
			if key, ok := parseSessionToken(raw, secret); ok {
				if s, err := registry.Get(c.Request.Context(), key); err == nil {
					state = s
				}
			}
		}

		if state == nil {
			s, err := registry.Create()
			if err != nil {
				utils.LogEvent(GetRequestID(c), "session", "create", "failed: "+err.Error())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
			state = s
			if token, err := issueSessionToken(state.Key, secret); err == nil {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
			}
		}

		c.Set(sessionKey, state)
		c.Next()
	}
}

// SessionState pulls the bound state out of the gin context.
func SessionState(c *gin.Context) *store.SessionState {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*store.SessionState); ok {
			return s
		}
	}
	return nil
}

func issueSessionToken(key string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   key,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseSessionToken(raw string, secret []byte) (string, bool) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
