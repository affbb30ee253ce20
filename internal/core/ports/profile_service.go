package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// ProfileInput is the DTO passed from the transport layer to ProfileService.
type ProfileInput struct {
	DisplayName       string
	Email             string
	Bio               string
	SkillsOffered     []string
	SkillsWanted      []string
	Availability      string
	YearsOfExperience int
	Contact           string
}

// ProfilePage is one page of search results.
type ProfilePage struct {
	Items      []*domain.Profile
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ProfileService interface {
	Upsert(ctx context.Context, owner string, in ProfileInput) (*domain.Profile, error)
	Get(ctx context.Context, id string) (*domain.Profile, error)
	GetByOwner(ctx context.Context, owner string) (*domain.Profile, error)
	Search(ctx context.Context, filter ProfileFilter) (*ProfilePage, error)
	Delete(ctx context.Context, id string, caller domain.AuthIdentity) error
}
