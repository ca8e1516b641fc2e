package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskcheck/api/internal/config"
	"github.com/taskcheck/api/internal/domain/user"
	"github.com/taskcheck/api/internal/repo/postgres"
	"github.com/taskcheck/api/internal/security"
	"github.com/taskcheck/api/internal/validate"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, email string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var creds user.Credentials
	if err := json.NewDecoder(ctx.Request.Body).Decode(&creds); err != nil {
		RespondInvalidJSON(ctx)
		return
	}

	if violations := validate.Struct(creds); violations != nil {
		RespondValidationErrors(ctx, violations)
		return
	}

	hash, err := security.HashPassword(creds.Password)
	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, creds.Email, hash)
	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondError(ctx, http.StatusBadRequest, "EMAIL_ALREADY_EXISTS", "Email already exists.")
			return
		}
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":    u.ID,
		"email": u.Email,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var creds user.Credentials
	if err := json.NewDecoder(ctx.Request.Body).Decode(&creds); err != nil {
		RespondInvalidJSON(ctx)
		return
	}

	if creds.Email == "" || creds.Password == "" {
		RespondUnauthorized(ctx, "'email' and 'password' are required.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// One message for unknown email and wrong password, so callers
	// cannot probe which emails are registered.
	foundUser, err := h.users.GetByEmail(cctx, creds.Email)
	if err != nil {
		RespondUnauthorized(ctx, "Invalid credentials.")
		return
	}

	if err := security.CheckPassword(foundUser.PasswordHash, creds.Password); err != nil {
		RespondUnauthorized(ctx, "Invalid credentials.")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Email)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
