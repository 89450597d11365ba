package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ballotbox/voting-backend/internal/middleware"
	"github.com/ballotbox/voting-backend/internal/models"
	"github.com/ballotbox/voting-backend/internal/store"
	"github.com/ballotbox/voting-backend/internal/token"
)

type AuthHandler struct {
	store  *store.Store
	issuer *token.Issuer
}

func NewAuthHandler(st *store.Store, issuer *token.Issuer) *AuthHandler {
	return &AuthHandler{store: st, issuer: issuer}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email or password"})
		return
	}
	h.register(c, input.Email, input.Password)
}

// Login handles user login. For compatibility with the existing client
// the body may carry an "action" discriminator that routes to signup.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email or password"})
		return
	}

	switch input.Action {
	case "", "login":
		h.login(c, input.Email, input.Password)
	case "signup":
		h.register(c, input.Email, input.Password)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action"})
	}
}

func (h *AuthHandler) register(c *gin.Context, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, err)
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), email, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
			return
		}
		serverError(c, err)
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) login(c *gin.Context, email, password string) {
	user, err := h.store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a wrong password; do not reveal which.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		serverError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User) {
	tokenString, err := h.issuer.Issue(user.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token: tokenString,
		User:  models.UserInfo{ID: user.ID, Email: user.Email},
	})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	user, err := h.store.UserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserInfo{ID: user.ID, Email: user.Email})
}
