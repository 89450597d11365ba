package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ballotbox/voting-backend/internal/middleware"
	"github.com/ballotbox/voting-backend/internal/models"
	"github.com/ballotbox/voting-backend/internal/store"
)

type VoteHandler struct {
	store *store.Store
}

func NewVoteHandler(st *store.Store) *VoteHandler {
	return &VoteHandler{store: st}
}

// GetOptions returns the candidate slate.
func (h *VoteHandler) GetOptions(c *gin.Context) {
	candidates, err := h.store.Candidates(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// CastVote submits the caller's ballot. Duplicate submissions get 409,
// unknown candidates 400; both are decided by the storage constraints.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.CandidateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing candidateId"})
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	if _, err := h.store.CastVote(c.Request.Context(), userID, input.CandidateID); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyVoted):
			c.JSON(http.StatusConflict, gin.H{"message": "You have already voted"})
		case errors.Is(err, store.ErrInvalidCandidate):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid candidate"})
		default:
			serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote submitted"})
}

// GetMyVote reports which candidate the caller voted for, or null.
func (h *VoteHandler) GetMyVote(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	vote, err := h.store.VoteByUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}
	if vote == nil {
		c.JSON(http.StatusOK, gin.H{"candidateId": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidateId": vote.CandidateID})
}

// GetResults returns per-candidate vote counts, highest first.
func (h *VoteHandler) GetResults(c *gin.Context) {
	results, err := h.store.Results(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
