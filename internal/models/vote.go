package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records a single user's ballot. The unique index on UserID is the
// at-most-one-vote guarantee; duplicate submissions must fail at the
// storage layer, not in application code.
type Vote struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	CandidateID string    `gorm:"size:36;not null;index" json:"candidate_id"`
	Candidate   Candidate `gorm:"foreignKey:CandidateID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type VoteRequest struct {
	CandidateID string `json:"candidateId"`
}

// Result is one row of the tally: per-candidate vote counts, zero-vote
// candidates included.
type Result struct {
	CandidateID    string `json:"candidate_id"`
	CandidateName  string `json:"candidate_name"`
	CandidateParty string `json:"candidate_party"`
	VoteCount      int64  `json:"vote_count"`
}
