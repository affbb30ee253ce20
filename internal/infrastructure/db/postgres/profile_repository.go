package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const profileColumns = `id::text, owner, display_name, email, bio, skills_offered, skills_wanted,
	availability, years_of_experience, contact, created_at, updated_at`

// searchWhere matches $1 against either skill list and $2 against the display
// name or owner. Empty parameters disable their clause. $2 must be escaped
// with likeEscaper.
const searchWhere = `($1 = '' OR $1 = ANY(skills_offered) OR $1 = ANY(skills_wanted))
	AND ($2 = '' OR display_name ILIKE '%' || $2 || '%' ESCAPE '\' OR owner ILIKE '%' || $2 || '%' ESCAPE '\')`

// likeEscaper makes %, _ and \ in a search query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ProfileRepository struct {
	db pool
}

func NewProfileRepository(db pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert keeps id and created_at of an existing row for the same owner.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := `INSERT INTO profiles (id, owner, display_name, email, bio, skills_offered, skills_wanted,
			availability, years_of_experience, contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (owner) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			bio = EXCLUDED.bio,
			skills_offered = EXCLUDED.skills_offered,
			skills_wanted = EXCLUDED.skills_wanted,
			availability = EXCLUDED.availability,
			years_of_experience = EXCLUDED.years_of_experience,
			contact = EXCLUDED.contact,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, q,
		uuid.NewString(), p.Owner, p.DisplayName, p.Email, p.Bio,
		nonNil(p.SkillsOffered), nonNil(p.SkillsWanted),
		p.Availability, p.YearsOfExperience, p.Contact, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.findOne(ctx, "id", id)
}

func (r *ProfileRepository) FindByOwner(ctx context.Context, owner string) (*domain.Profile, error) {
	return r.findOne(ctx, "owner", owner)
}

func (r *ProfileRepository) Search(ctx context.Context, filter ports.ProfileFilter) ([]*domain.Profile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := likeEscaper.Replace(filter.Query)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM profiles WHERE `+searchWhere,
		filter.Skill, query).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	if total == 0 {
		return []*domain.Profile{}, 0, nil
	}

	offset := (filter.Page - 1) * filter.Limit
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + searchWhere +
		` ORDER BY updated_at DESC, id LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, q, filter.Skill, query, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Profile, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("search profiles: %w", err)
	}
	return out, total, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) findOne(ctx context.Context, column, value string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s = $1`, profileColumns, column)
	p, err := scanProfile(r.db.QueryRow(ctx, q, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Owner, &p.DisplayName, &p.Email, &p.Bio,
		&p.SkillsOffered, &p.SkillsWanted,
		&p.Availability, &p.YearsOfExperience, &p.Contact,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
