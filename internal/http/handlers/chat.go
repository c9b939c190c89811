package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"buschat/internal/domain"
	"buschat/internal/http/middleware"
)

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// POST /api/query
func (a *API) Query(c *gin.Context) {
	var req queryRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if a.Limiter != nil && !a.Limiter.Allow(sessionID) {
		RespondError(c, http.StatusTooManyRequests, "slow down a little", nil)
		return
	}

	msg, err := sess.Chat.Send(c.Request.Context(), sessionID, *user, req.Query)
	if err != nil {
		if domain.IsSessionExpired(err) || domain.IsValidation(err) || domain.IsConflict(err) {
			RespondDomainError(c, err)
			return
		}
		// Non-auth failures render inline: the placeholder already carries
		// the failure notice, so the transcript stays consistent.
	}

	sess.SetDiscounts(msg.Content.Discounts)
	sess.SetPassengers(msg.Content.Passengers)

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"message":    msg,
	})
}

// GET /api/history?session_id=
func (a *API) History(c *gin.Context) {
	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		RespondError(c, http.StatusBadRequest, "session_id is required", nil)
		return
	}

	entries, err := sess.Client.History(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	transcript := sess.Chat.Restore(sessionID, entries)
	c.JSON(http.StatusOK, gin.H{"session": transcript})
}

// GET /api/conversations
func (a *API) Conversations(c *gin.Context) {
	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	list, err := sess.Client.Conversations(c.Request.Context(), user.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// DELETE /api/conversations?session_id=
func (a *API) DeleteConversation(c *gin.Context) {
	sess := middleware.SessionState(c)
	user, err := a.authService(c).EnsureAuthenticated(c.Request.Context(), sess)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		RespondError(c, http.StatusBadRequest, "session_id is required", nil)
		return
	}

	if err := sess.Client.DeleteConversation(c.Request.Context(), user.ID, sessionID); err != nil {
		RespondDomainError(c, err)
		return
	}
	sess.Chat.Drop(sessionID)
	if a.Limiter != nil {
		a.Limiter.Forget(sessionID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "conversation deleted"})
}
