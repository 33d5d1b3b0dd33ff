// Package httpapi exposes the service over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/logging"
	"github.com/celestia-oracle/celestia/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserDirectory is the account-facing slice of the service layer the
// handlers need.
type UserDirectory interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (bool, error)
	ResendVerification(ctx context.Context, userID int64) (bool, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ChatOracle is the conversation-facing slice of the service layer.
type ChatOracle interface {
	Chat(ctx context.Context, userID int64, message, sessionKey, zodiacSign string) (string, string, error)
	ClearHistory(ctx context.Context, userID int64, sessionKey string) error
}

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users     UserDirectory
	chat      ChatOracle
	db        Pinger
	logger    logging.Logger
	jwtSecret []byte
	hasAPIKey bool
}

func NewHandler(users UserDirectory, chat ChatOracle, db Pinger, logger logging.Logger, jwtSecret []byte, hasAPIKey bool) *Handler {
	return &Handler{
		users:     users,
		chat:      chat,
		db:        db,
		logger:    logger,
		jwtSecret: jwtSecret,
		hasAPIKey: hasAPIKey,
	}
}

// InitRoutes builds the gin engine with the full API surface.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/verify-email", h.VerifyEmail)
			authGroup.POST("/forgot-password", h.ForgotPassword)
			authGroup.POST("/reset-password", h.ResetPassword)

			authGroup.Use(AuthMiddleware(h.jwtSecret))
			authGroup.GET("/me", h.Me)
			authGroup.POST("/resend-verification", h.ResendVerification)
		}

		api.Use(AuthMiddleware(h.jwtSecret))
		api.POST("/chat", h.Chat)
		api.POST("/clear-history", h.ClearHistory)
	}

	return router
}

type errorResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: errMessage})
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsVerified: u.IsVerified}
}

// abortWithErr translates service errors into HTTP responses. Internal
// details never reach the client; they are already logged by the service.
func abortWithErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUsernameTaken), errors.Is(err, common.ErrEmailTaken):
		newErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		newErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrTokenNotFound), errors.Is(err, common.ErrTokenExpired):
		newErrorResponse(c, http.StatusBadRequest, common.ErrTokenNotFound.Error())
	case errors.Is(err, common.ErrorNotFound):
		newErrorResponse(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrModelCredential):
		newErrorResponse(c, http.StatusUnauthorized, "fortune telling service authentication failed")
	case errors.Is(err, common.ErrModelUnavailable):
		newErrorResponse(c, http.StatusServiceUnavailable, "the stars are clouded, please try again later")
	default:
		newErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, access, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		abortWithErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		AccessToken: access,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	})
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, access, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithErr(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken: access,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	userID := subjectID(c)

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GET /api/auth/verify-email?token=...
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		newErrorResponse(c, http.StatusBadRequest, "token is required")
		return
	}

	already, err := h.users.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		abortWithErr(c, err)
		return
	}

	msg := "Email verified successfully! You can now use all features."
	if already {
		msg = "Email already verified."
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// POST /api/auth/resend-verification
func (h *Handler) ResendVerification(c *gin.Context) {
	userID := subjectID(c)

	already, err := h.users.ResendVerification(c.Request.Context(), userID)
	if err != nil {
		abortWithErr(c, err)
		return
	}

	msg := "Verification email sent."
	if already {
		msg = "Email already verified."
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// resetRequestedMsg is returned for every forgot-password request, known
// address or not, so responses cannot be used to probe for accounts.
const resetRequestedMsg = "If the email is registered, a password reset link has been sent."

// POST /api/auth/forgot-password
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		newErrorResponse(c, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.users.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
}

// POST /api/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		newErrorResponse(c, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}

// POST /api/chat
func (h *Handler) Chat(c *gin.Context) {
	var req struct {
		Message    string `json:"message"`
		SessionID  string `json:"sessionId"`
		ZodiacSign string `json:"zodiacSign"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, sessionKey, err := h.chat.Chat(c.Request.Context(), subjectID(c), req.Message, req.SessionID, req.ZodiacSign)
	if err != nil {
		abortWithErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":  reply,
		"sessionId": sessionKey,
	})
}

// POST /api/clear-history
func (h *Handler) ClearHistory(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		newErrorResponse(c, http.StatusBadRequest, "sessionId is required")
		return
	}

	if err := h.chat.ClearHistory(c.Request.Context(), subjectID(c), req.SessionID); err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	dbOK := h.db.PingContext(c.Request.Context()) == nil

	status := "ok"
	if !dbOK {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             status,
		"message":            "Celestia is gazing at the stars",
		"hasApiKey":          h.hasAPIKey,
		"database_connected": dbOK,
	})
}
