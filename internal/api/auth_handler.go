package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/api/middleware"
	"cvforge/internal/auth"
	"cvforge/internal/database"
	"cvforge/internal/errcode"
	"cvforge/internal/otp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailDispatcher hands an issued code off for delivery. Dispatch
// failures are logged by the caller and never fail the request.
type EmailDispatcher interface {
	DispatchOTP(ctx context.Context, email, name, code, correlationID string) error
}

// AuthHandler drives the email OTP register/login flow.
type AuthHandler struct {
	db         *gorm.DB
	registry   otp.Registry
	dispatcher EmailDispatcher
	tokens     *auth.TokenService
	rate       redisRateCounter
	logger     *slog.Logger
	otpTTL     time.Duration
	issueLimit int
	production bool

	// now is swappable in tests so expiry needs no real waiting.
	now func() time.Time
}

func NewAuthHandler(
	db *gorm.DB,
	registry otp.Registry,
	dispatcher EmailDispatcher,
	tokens *auth.TokenService,
	rate redisRateCounter,
	logger *slog.Logger,
	otpTTL time.Duration,
	issueLimit int,
	production bool,
) *AuthHandler {
	return &AuthHandler{
		db:         db,
		registry:   registry,
		dispatcher: dispatcher,
		tokens:     tokens,
		rate:       rate,
		logger:     logger,
		otpTTL:     otpTTL,
		issueLimit: issueLimit,
		production: production,
		now:        time.Now,
	}
}

type registerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register issues an OTP for a new account. The user row is only created
// later, on verification.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and name are required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if req.Email == "" || name == "" {
		BadRequest(c, "email and name are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		BadRequest(c, "invalid email format")
		return
	}

	email := otp.NormalizeEmail(req.Email)
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	var existing database.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		logger.Info("register conflict: email already registered")
		Conflict(c, "email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err))
		Internal(c, err)
		return
	}

	if h.issueLimited(c, email) {
		return
	}

	h.issueAndReply(c, email, name, nil)
}

type loginRequest struct {
	Email string `json:"email"`
}

// Login issues an OTP for an existing account, remembering its user ID.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email is required")
		return
	}
	if req.Email == "" {
		BadRequest(c, "email is required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		BadRequest(c, "invalid email format")
		return
	}

	email := otp.NormalizeEmail(req.Email)
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	var user database.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("login failed: user not found")
			NotFound(c, "user not found")
			return
		}
		logger.Error("login lookup failed", slog.Any("error", err))
		Internal(c, err)
		return
	}

	if h.issueLimited(c, email) {
		return
	}

	h.issueAndReply(c, email, user.Name, &user.ID)
}

type resendRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ResendOTP unconditionally replaces any live code for the address,
// preserving a previously recorded pending user ID.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email is required")
		return
	}
	if req.Email == "" {
		BadRequest(c, "email is required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		BadRequest(c, "invalid email format")
		return
	}

	email := otp.NormalizeEmail(req.Email)
	ctx := c.Request.Context()

	if h.issueLimited(c, email) {
		return
	}

	var pendingUserID *uint
	if prev, ok, err := h.registry.Get(ctx, email); err == nil && ok {
		pendingUserID = prev.PendingUserID
	}

	h.issueAndReply(c, email, strings.TrimSpace(req.Name), pendingUserID)
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Name  string `json:"name"`
}

type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// VerifyOTP consumes a code. With a name it completes registration and
// creates the user; without one it completes login for an existing user.
// The record is deleted on success or on expiry, never on a mismatch, so
// the user can retype within the window.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and otp are required")
		return
	}
	if req.Email == "" || req.OTP == "" {
		BadRequest(c, "email and otp are required")
		return
	}

	email := otp.NormalizeEmail(req.Email)
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	rec, ok, err := h.registry.Get(ctx, email)
	if err != nil {
		logger.Error("otp lookup failed", slog.Any("error", err))
		Internal(c, err)
		return
	}
	if !ok {
		Error(c, http.StatusNotFound, "otp not found or expired", errcode.OTPNotFound)
		return
	}

	if rec.Expired(h.now()) {
		if err := h.registry.Delete(ctx, email); err != nil {
			logger.Error("delete expired otp failed", slog.Any("error", err))
		}
		Error(c, http.StatusBadRequest, "otp expired", errcode.OTPExpired)
		return
	}

	if rec.Code != req.OTP {
		logger.Info("otp mismatch")
		Error(c, http.StatusBadRequest, "invalid otp", errcode.OTPInvalid)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name != "" {
		h.completeRegistration(c, email, name)
		return
	}
	h.completeLogin(c, email)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func (h *AuthHandler) completeRegistration(c *gin.Context, email, name string) {
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	user := database.User{Email: email, Name: name}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "email already registered")
			return
		}
		logger.Error("create user failed", slog.Any("error", err))
		Internal(c, err)
		return
	}

	// A crash here leaves a verified-but-present record behind; it
	// simply expires, so no transaction spans the two stores.
	if err := h.registry.Delete(ctx, email); err != nil {
		logger.Error("delete otp after registration failed", slog.Any("error", err))
	}

	logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	h.replyVerified(c, http.StatusCreated, "registration successful", user)
}

func (h *AuthHandler) completeLogin(c *gin.Context, email string) {
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	var user database.User
	if err := h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "user not found")
			return
		}
		logger.Error("login user lookup failed", slog.Any("error", err))
		Internal(c, err)
		return
	}

	if err := h.registry.Delete(ctx, email); err != nil {
		logger.Error("delete otp after login failed", slog.Any("error", err))
	}

	logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)))
	h.replyVerified(c, http.StatusOK, "login successful", user)
}

func (h *AuthHandler) replyVerified(c *gin.Context, status int, message string, user database.User) {
	resp := gin.H{
		"message": message,
		"user":    userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	}
	if token, err := h.tokens.IssueAccessToken(user.ID); err == nil {
		resp["accessToken"] = token
		resp["tokenType"] = "Bearer"
		resp["expiresIn"] = int(h.tokens.AccessTokenTTL().Seconds())
	} else {
		h.loggerFromContext(c).Error("issue access token failed", slog.Any("error", err))
	}
	c.JSON(status, resp)
}

// issueAndReply generates a code, stores the record, queues the email
// and answers 200. Dispatch failure is logged, never surfaced: the flow
// can continue in development where the code is echoed back.
func (h *AuthHandler) issueAndReply(c *gin.Context, email, name string, pendingUserID *uint) {
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	code, err := otp.GenerateCode()
	if err != nil {
		logger.Error("generate otp failed", slog.Any("error", err))
		Internal(c, err)
		return
	}

	rec := otp.Record{
		Code:          code,
		ExpiresAt:     h.now().Add(h.otpTTL),
		PendingUserID: pendingUserID,
	}
	if err := h.registry.Set(ctx, email, rec, h.otpTTL); err != nil {
		logger.Error("store otp failed", slog.Any("error", err))
		Internal(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	if err := h.dispatcher.DispatchOTP(ctx, email, name, code, correlationID); err != nil {
		logger.Error("dispatch otp email failed", slog.Any("error", err))
	}

	resp := gin.H{
		"email":   email,
		"message": "otp sent to your email",
	}
	if !h.production {
		resp["otp"] = code
	}
	c.JSON(http.StatusOK, resp)
}

// issueLimited enforces the per-email issuance cap. Counter errors
// degrade open so a Redis hiccup never locks users out.
func (h *AuthHandler) issueLimited(c *gin.Context, email string) bool {
	if h.rate == nil || h.issueLimit <= 0 {
		return false
	}
	count, err := incrWithTTL(c.Request.Context(), h.rate, "rate:otp:"+email, h.otpTTL)
	if err != nil {
		count = 0
	}
	if count > int64(h.issueLimit) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many otp requests, try again later"})
		return true
	}
	return false
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
