package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ProfileService struct {
	repo     ports.ProfileRepository
	resolver ports.IdentityResolver
	logger   zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, resolver ports.IdentityResolver, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, resolver: resolver, logger: logger}
}

// Upsert creates or replaces the profile owned by owner.
func (s *ProfileService) Upsert(ctx context.Context, owner string, in ports.ProfileInput) (*domain.Profile, error) {
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", domain.ErrInvalidInput)
	}
	if in.YearsOfExperience < 0 {
		return nil, fmt.Errorf("%w: years of experience must not be negative", domain.ErrInvalidInput)
	}
	if _, err := s.resolver.Resolve(ctx, owner); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		Owner:             owner,
		DisplayName:       strings.TrimSpace(in.DisplayName),
		Email:             strings.TrimSpace(in.Email),
		Bio:               in.Bio,
		SkillsOffered:     domain.NormalizeSkills(in.SkillsOffered),
		SkillsWanted:      domain.NormalizeSkills(in.SkillsWanted),
		Availability:      in.Availability,
		YearsOfExperience: in.YearsOfExperience,
		Contact:           in.Contact,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	saved, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to save profile")
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	s.logger.Info().Str("owner", owner).Str("profile_id", saved.ID).Msg("profile saved")
	return saved, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProfileService) GetByOwner(ctx context.Context, owner string) (*domain.Profile, error) {
	return s.repo.FindByOwner(ctx, owner)
}

// Search returns a page of profiles. Page is 1-based; limit defaults to 20 and
// is capped at 100.
func (s *ProfileService) Search(ctx context.Context, filter ports.ProfileFilter) (*ports.ProfilePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	// the repositories skip (page-1)*limit rows
	if filter.Page > math.MaxInt/filter.Limit {
		return nil, fmt.Errorf("%w: page %d is out of range", domain.ErrInvalidInput, filter.Page)
	}
	filter.Skill = strings.ToLower(strings.TrimSpace(filter.Skill))
	filter.Query = strings.TrimSpace(filter.Query)

	items, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ProfilePage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Delete removes a profile. Only its owner or an ADMIN may do so.
func (s *ProfileService) Delete(ctx context.Context, id string, caller domain.AuthIdentity) error {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin && profile.Owner != caller.Username {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	s.logger.Info().Str("profile_id", id).Str("by", caller.Username).Msg("profile deleted")
	return nil
}
