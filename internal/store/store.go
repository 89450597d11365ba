// Package store wraps all database operations behind typed outcomes.
// Handlers translate these errors into HTTP responses; nothing above
// this package issues queries directly.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ballotbox/voting-backend/internal/models"
)

var (
	ErrEmailTaken       = errors.New("email already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyVoted     = errors.New("user has already voted")
	ErrInvalidCandidate = errors.New("candidate does not exist")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateUser persists a new user row. A duplicate email surfaces as
// ErrEmailTaken via the unique index on users.email.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := models.User{Email: email, PasswordHash: passwordHash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user by id: %w", err)
	}
	return &user, nil
}

// Candidates returns the full slate in natural storage order.
func (s *Store) Candidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := s.db.WithContext(ctx).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	return candidates, nil
}

// CastVote attempts a single atomic insert. There is deliberately no
// "has this user voted" pre-check: two concurrent submissions would both
// pass such a check. The unique index on votes.user_id rejects the
// second insert, which is reported as ErrAlreadyVoted; a candidate id
// that fails the foreign key is reported as ErrInvalidCandidate.
func (s *Store) CastVote(ctx context.Context, userID, candidateID string) (*models.Vote, error) {
	vote := models.Vote{UserID: userID, CandidateID: candidateID}
	if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyVoted
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, ErrInvalidCandidate
		default:
			return nil, fmt.Errorf("casting vote: %w", err)
		}
	}
	return &vote, nil
}

// VoteByUser returns the user's vote, or (nil, nil) when the user has
// not voted yet. Absence is not an error.
func (s *Store) VoteByUser(ctx context.Context, userID string) (*models.Vote, error) {
	var vote models.Vote
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up vote: %w", err)
	}
	return &vote, nil
}

// Results tallies votes per candidate. Zero-vote candidates are included
// via the LEFT JOIN; ordering is vote count descending with candidate id
// as the deterministic tiebreak.
func (s *Store) Results(ctx context.Context) ([]models.Result, error) {
	var results []models.Result
	err := s.db.WithContext(ctx).
		Table("candidates").
		Select("candidates.id AS candidate_id, candidates.name AS candidate_name, candidates.party AS candidate_party, COUNT(votes.id) AS vote_count").
		Joins("LEFT JOIN votes ON votes.candidate_id = candidates.id").
		Group("candidates.id, candidates.name, candidates.party").
		Order("vote_count DESC, candidate_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("tallying results: %w", err)
	}
	return results, nil
}
