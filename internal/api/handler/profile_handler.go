package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/api/metrics"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
	logger  zerolog.Logger
}

func NewProfileHandler(service ports.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// --- Request / Response types ---

type profileRequest struct {
	DisplayName       string   `json:"display_name" validate:"required,max=100"`
	Email             string   `json:"email" validate:"omitempty,email"`
	Bio               string   `json:"bio" validate:"max=2000"`
	SkillsOffered     []string `json:"skills_offered" validate:"max=50,dive,required,max=64"`
	SkillsWanted      []string `json:"skills_wanted" validate:"max=50,dive,required,max=64"`
	Availability      string   `json:"availability" validate:"max=200"`
	YearsOfExperience int      `json:"years_of_experience" validate:"min=0,max=80"`
	Contact           string   `json:"contact" validate:"max=200"`
}

type profilePageResponse struct {
	Items      []*domain.Profile `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// UpsertMine handles PUT /api/profiles/me.
//
// @Summary      Create or replace the caller's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/profiles/me [put]
func (h *ProfileHandler) UpsertMine(c echo.Context) error {
	caller, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ProfileWritesTotal.WithLabelValues("upsert", "invalid_input").Inc()
		return err
	}

	profile, err := h.service.Upsert(c.Request().Context(), caller.Username, ports.ProfileInput{
		DisplayName:       req.DisplayName,
		Email:             req.Email,
		Bio:               req.Bio,
		SkillsOffered:     req.SkillsOffered,
		SkillsWanted:      req.SkillsWanted,
		Availability:      req.Availability,
		YearsOfExperience: req.YearsOfExperience,
		Contact:           req.Contact,
	})
	metrics.ProfileWritesTotal.WithLabelValues("upsert", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// GetMine handles GET /api/profiles/me.
//
// @Summary      Get the caller's profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  errorResponse
// @Router       /api/profiles/me [get]
func (h *ProfileHandler) GetMine(c echo.Context) error {
	caller, err := identityFrom(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetByOwner(c.Request().Context(), caller.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Search handles GET /api/profiles?skill=&q=&page=&limit=.
//
// @Summary      Search profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        skill  query     string  false  "Offered or wanted skill"
// @Param        q      query     string  false  "Display name or owner contains"
// @Param        page   query     int     false  "1-based page"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  profilePageResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/profiles [get]
func (h *ProfileHandler) Search(c echo.Context) error {
	var filter ports.ProfileFilter
	err := echo.QueryParamsBinder(c).
		String("skill", &filter.Skill).
		String("q", &filter.Query).
		Int("page", &filter.Page).
		Int("limit", &filter.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}

	page, err := h.service.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := page.Items
	if items == nil {
		items = []*domain.Profile{}
	}
	return c.JSON(http.StatusOK, profilePageResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Get handles GET /api/profiles/:id.
//
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile id"
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  errorResponse
// @Router       /api/profiles/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Delete handles DELETE /api/profiles/:id. Owners delete their own profile;
// admins delete any.
//
// @Summary      Delete a profile
// @Tags         profiles
// @Security     BearerAuth
// @Param        id   path  string  true  "Profile id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/profiles/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	caller, err := identityFrom(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), c.Param("id"), caller)
	metrics.ProfileWritesTotal.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
