package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// ProfileFilter carries the query parameters for profile search.
type ProfileFilter struct {
	Skill string // optional: exact match on an offered or wanted skill
	Query string // optional: partial match on display name or owner
	Page  int    // 1-based
	Limit int    // capped at 100 by the service
}

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	// Upsert creates or replaces the profile owned by p.Owner.
	Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	FindByOwner(ctx context.Context, owner string) (*domain.Profile, error)
	Search(ctx context.Context, filter ProfileFilter) ([]*domain.Profile, int64, error)
	Delete(ctx context.Context, id string) error
}
