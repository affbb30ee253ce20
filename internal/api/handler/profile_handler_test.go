package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/api/middleware"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

type stubProfileService struct {
	upsertFn     func(ctx context.Context, owner string, in ports.ProfileInput) (*domain.Profile, error)
	getFn        func(ctx context.Context, id string) (*domain.Profile, error)
	getByOwnerFn func(ctx context.Context, owner string) (*domain.Profile, error)
	searchFn     func(ctx context.Context, filter ports.ProfileFilter) (*ports.ProfilePage, error)
	deleteFn     func(ctx context.Context, id string, caller domain.AuthIdentity) error
}

func (s *stubProfileService) Upsert(ctx context.Context, owner string, in ports.ProfileInput) (*domain.Profile, error) {
	return s.upsertFn(ctx, owner, in)
}

func (s *stubProfileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	return s.getFn(ctx, id)
}

func (s *stubProfileService) GetByOwner(ctx context.Context, owner string) (*domain.Profile, error) {
	return s.getByOwnerFn(ctx, owner)
}

func (s *stubProfileService) Search(ctx context.Context, filter ports.ProfileFilter) (*ports.ProfilePage, error) {
	return s.searchFn(ctx, filter)
}

func (s *stubProfileService) Delete(ctx context.Context, id string, caller domain.AuthIdentity) error {
	return s.deleteFn(ctx, id, caller)
}

func authenticate(c echo.Context, username string, role domain.Role) {
	c.Set(middleware.KeyUsername, username)
	c.Set(middleware.KeyRole, string(role))
}

func TestProfileHandler_UpsertMine(t *testing.T) {
	svc := &stubProfileService{
		upsertFn: func(ctx context.Context, owner string, in ports.ProfileInput) (*domain.Profile, error) {
			if owner != "alice" {
				t.Fatalf("expected owner alice, got %s", owner)
			}
			if in.DisplayName != "Alice" || len(in.SkillsOffered) != 2 || in.YearsOfExperience != 4 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Profile{ID: "p-1", Owner: owner, DisplayName: in.DisplayName, SkillsOffered: in.SkillsOffered}, nil
		},
	}
	h := NewProfileHandler(svc, zerolog.Nop())

	body := `{"display_name":"Alice","skills_offered":["Go","SQL"],"skills_wanted":["piano"],"years_of_experience":4}`
	c, rec := newJSONContext(http.MethodPut, "/api/profiles/me", body)
	authenticate(c, "alice", domain.RoleUser)

	if err := h.UpsertMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "p-1" || resp["owner"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProfileHandler_UpsertMine_Validation(t *testing.T) {
	svc := &stubProfileService{
		upsertFn: func(ctx context.Context, owner string, in ports.ProfileInput) (*domain.Profile, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewProfileHandler(svc, zerolog.Nop())

	tests := map[string]string{
		"missing display name": `{"skills_offered":["go"]}`,
		"bad email":            `{"display_name":"A","email":"nope"}`,
		"negative experience":  `{"display_name":"A","years_of_experience":-1}`,
		"empty skill":          `{"display_name":"A","skills_offered":[""]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(http.MethodPut, "/api/profiles/me", body)
			authenticate(c, "alice", domain.RoleUser)

			var he *echo.HTTPError
			if err := h.UpsertMine(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestProfileHandler_Search(t *testing.T) {
	svc := &stubProfileService{
		searchFn: func(ctx context.Context, filter ports.ProfileFilter) (*ports.ProfilePage, error) {
			if filter.Skill != "go" || filter.Query != "ali" || filter.Page != 2 || filter.Limit != 5 {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return &ports.ProfilePage{Total: 6, Page: 2, Limit: 5, TotalPages: 2}, nil
		},
	}
	h := NewProfileHandler(svc, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/api/profiles?skill=go&q=ali&page=2&limit=5", "")
	authenticate(c, "bob", domain.RoleUser)

	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(6) || resp["total_pages"] != float64(2) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if items, ok := resp["items"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty items array, got %v", resp["items"])
	}
}

func TestProfileHandler_Search_BadPage(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodGet, "/api/profiles?page=two", "")
	var he *echo.HTTPError
	if err := h.Search(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestProfileHandler_GetMine_NotFound(t *testing.T) {
	svc := &stubProfileService{
		getByOwnerFn: func(ctx context.Context, owner string) (*domain.Profile, error) {
			return nil, domain.ErrProfileNotFound
		},
	}
	h := NewProfileHandler(svc, zerolog.Nop())

	c, _ := newJSONContext(http.MethodGet, "/api/profiles/me", "")
	authenticate(c, "alice", domain.RoleUser)

	if err := h.GetMine(c); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileHandler_Delete(t *testing.T) {
	var gotCaller domain.AuthIdentity
	svc := &stubProfileService{
		deleteFn: func(ctx context.Context, id string, caller domain.AuthIdentity) error {
			gotCaller = caller
			if id == "p-2" {
				return domain.ErrForbidden
			}
			return nil
		},
	}
	h := NewProfileHandler(svc, zerolog.Nop())

	c, rec := newJSONContext(http.MethodDelete, "/api/profiles/p-1", "")
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	authenticate(c, "root", domain.RoleAdmin)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotCaller != (domain.AuthIdentity{Username: "root", Role: domain.RoleAdmin}) {
		t.Fatalf("unexpected caller: %+v", gotCaller)
	}

	c, _ = newJSONContext(http.MethodDelete, "/api/profiles/p-2", "")
	c.SetParamNames("id")
	c.SetParamValues("p-2")
	authenticate(c, "bob", domain.RoleUser)

	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProfileHandler_Get(t *testing.T) {
	svc := &stubProfileService{
		getFn: func(ctx context.Context, id string) (*domain.Profile, error) {
			return &domain.Profile{ID: id, Owner: "alice", SkillsOffered: []string{"go"}, SkillsWanted: []string{}}, nil
		},
	}
	h := NewProfileHandler(svc, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/api/profiles/p-9", "")
	c.SetParamNames("id")
	c.SetParamValues("p-9")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"p-9"`) {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}
