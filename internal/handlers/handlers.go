package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ballotbox/voting-backend/internal/store"
	"github.com/ballotbox/voting-backend/internal/token"
)

// Handler combines all handler types
type Handler struct {
	Auth *AuthHandler
	Vote *VoteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(st *store.Store, issuer *token.Issuer) *Handler {
	return &Handler{
		Auth: NewAuthHandler(st, issuer),
		Vote: NewVoteHandler(st),
	}
}

// serverError logs the underlying failure and returns a generic message;
// internal detail never reaches the client.
func serverError(c *gin.Context, err error) {
	log.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
