package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// CredentialStore keeps the principals of one kind in its own table.
type CredentialStore struct {
	db    pool
	kind  domain.Kind
	table string
}

// NewCredentialStore returns the store for kind: table users for
// domain.KindUser and admins for domain.KindAdmin.
func NewCredentialStore(db pool, kind domain.Kind) *CredentialStore {
	table := "users"
	if kind == domain.KindAdmin {
		table = "admins"
	}
	return &CredentialStore{db: db, kind: kind, table: table}
}

func (s *CredentialStore) Kind() domain.Kind { return s.kind }

func (s *CredentialStore) Exists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var exists bool
	q := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE username = $1)`, s.table)
	if err := s.db.QueryRow(ctx, q, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s exists: %w", s.kind, err)
	}
	return exists, nil
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return s.findOne(ctx, "username", username)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUnknownPrincipal
	}
	return s.findOne(ctx, "id", id)
}

// Save inserts p. A unique violation on username maps to
// domain.ErrAlreadyExists so concurrent registrations cannot both succeed.
func (s *CredentialStore) Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	q := fmt.Sprintf(`INSERT INTO %s (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, username, password_hash, role, created_at`, s.table)

	saved, err := scanPrincipal(s.db.QueryRow(ctx, q, id, p.Username, p.PasswordHash, string(p.Role), p.CreatedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert %s: %w", s.kind, err)
	}
	return saved, nil
}

func (s *CredentialStore) List(ctx context.Context) ([]*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := fmt.Sprintf(`SELECT id::text, username, password_hash, role, created_at FROM %s ORDER BY created_at, username`, s.table)
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	defer rows.Close()

	var out []*domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.kind, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	return out, nil
}

func (s *CredentialStore) findOne(ctx context.Context, column, value string) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := fmt.Sprintf(`SELECT id::text, username, password_hash, role, created_at FROM %s WHERE %s = $1`, s.table, column)
	p, err := scanPrincipal(s.db.QueryRow(ctx, q, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("find %s: %w", s.kind, err)
	}
	return p, nil
}

func scanPrincipal(row pgx.Row) (*domain.Principal, error) {
	var (
		p    domain.Principal
		role string
	)
	if err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &role, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = domain.Role(role)
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}
