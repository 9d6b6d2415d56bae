package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/database"
	"github.com/ratepulse/feedback-api/internal/dto"
	"github.com/ratepulse/feedback-api/internal/models"
	"github.com/ratepulse/feedback-api/internal/repository"
	"github.com/ratepulse/feedback-api/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubVerifier struct {
	claims *services.IdentityClaims
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, rawIDToken string) (*services.IdentityClaims, error) {
	return s.claims, s.err
}

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	return newAuthTestEnv(t, "https://id.example.com/token")
}

func newAuthTestEnv(t *testing.T, tokenURL string) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Feedback{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	oauthCfg := &oauth2.Config{
		ClientID:    "test-client",
		RedirectURL: "http://localhost:8080/api/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://id.example.com/authorize",
			TokenURL: tokenURL,
		},
	}
	authService := services.NewAuthServiceWithParts(oauthCfg, &stubVerifier{}, userRepo, templateRepo)
	handler := NewAuthHandler(authService, "/")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func authRouter(env authTestEnv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.GET("/api/login", env.handler.Login)
	r.GET("/api/callback", env.handler.Callback)
	r.GET("/api/logout", env.handler.Logout)
	return r
}

func TestAuthHandler_LoginRedirectsToProvider(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "id.example.com", location.Host)
	require.Equal(t, "/authorize", location.Path)
	require.Equal(t, "test-client", location.Query().Get("client_id"))
	require.NotEmpty(t, location.Query().Get("state"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie carrying the state nonce")
}

func TestAuthHandler_CallbackRejectsStateMismatch(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	// No session state was ever stored for this visitor.
	req := httptest.NewRequest(http.MethodGet, "/api/callback?state=forged&code=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_CallbackConsumesStateOnFailedExchange(t *testing.T) {
	// A token endpoint that always fails the code exchange.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	env := newAuthTestEnv(t, ts.URL)
	r := authRouter(env)

	// Start a login to bind a state nonce to the session.
	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	loginCookies := w.Result().Cookies()
	require.NotEmpty(t, loginCookies)

	// The exchange fails, but the nonce must already be consumed and the
	// session saved without it.
	req = httptest.NewRequest(http.MethodGet, "/api/callback?state="+state+"&code=abc", nil)
	for _, cookie := range loginCookies {
		req.AddCookie(cookie)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	updatedCookies := w.Result().Cookies()
	require.NotEmpty(t, updatedCookies, "expected the session to be saved with the nonce removed")

	// Replaying the same state against the updated session is rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/callback?state="+state+"&code=abc", nil)
	for _, cookie := range updatedCookies {
		req.AddCookie(cookie)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.CompleteLogin(&services.IdentityClaims{
		Subject: "oidc-subject-1",
		Email:   "owner@example.com",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
	require.NotEmpty(t, response.FeedbackLinkID)
}
