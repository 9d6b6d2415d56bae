package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/dto"
	apierrors "github.com/ratepulse/feedback-api/internal/errors"
	"github.com/ratepulse/feedback-api/internal/middleware"
	"github.com/ratepulse/feedback-api/internal/services"
	"github.com/ratepulse/feedback-api/internal/utils"
)

// AuthHandler coordinates the OIDC redirect flow and session management.
type AuthHandler struct {
	authService       *services.AuthService
	logoutRedirectURL string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logoutRedirectURL string) *AuthHandler {
	if logoutRedirectURL == "" {
		logoutRedirectURL = "/"
	}
	return &AuthHandler{
		authService:       authService,
		logoutRedirectURL: logoutRedirectURL,
	}
}

// Login stores a state nonce in the session and redirects to the identity
// provider. All credential handling happens there.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := utils.GenerateStateToken()
	if err != nil {
		apierrors.InternalError(c, "Failed to start login")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, h.authService.AuthCodeURL(state))
}

// Callback completes the provider redirect: state check, code exchange,
// identity verification, user upsert, session initialization.
func (h *AuthHandler) Callback(c *gin.Context) {
	session := sessions.Default(c)

	expectedState, _ := session.Get(constants.SessionKeyOAuthState).(string)
	if expectedState == "" || c.Query("state") != expectedState {
		apierrors.BadRequest(c, "Invalid login state")
		return
	}

	// Consume the nonce before the exchange so a failed login cannot
	// replay the same state.
	session.Delete(constants.SessionKeyOAuthState)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "Missing authorization code")
		return
	}

	user, err := h.authService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		log.Printf("login callback failed: %v", err)
		apierrors.Unauthorized(c, "Login failed")
		return
	}

	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout removes the session and sends the browser back to the landing page.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.Redirect(http.StatusFound, h.logoutRedirectURL)
}

// GetCurrentUser returns the authenticated user's profile, including the
// public feedback link id the dashboard turns into a shareable URL.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
