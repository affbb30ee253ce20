package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/api/metrics"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const invalidRefreshMessage = "Invalid refresh token"

// AuthHandler serves registration, login, refresh and principal lookup for
// both principal kinds.
type AuthHandler struct {
	users    ports.AuthService
	admins   ports.AuthService
	refresh  ports.RefreshService
	resolver ports.IdentityResolver
	logger   zerolog.Logger
}

func NewAuthHandler(users, admins ports.AuthService, refresh ports.RefreshService, resolver ports.IdentityResolver, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		admins:   admins,
		refresh:  refresh,
		resolver: resolver,
		logger:   logger,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN user admin"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type identityResponse struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// RegisterUser handles POST /api/register/user.
//
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      201   {object}  domain.Principal
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/register/user [post]
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	return h.register(c, h.users)
}

// RegisterAdmin handles POST /api/register/admin.
//
// @Summary      Register an admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      201   {object}  domain.Principal
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/register/admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	return h.register(c, h.admins)
}

// LoginUser handles POST /api/login/user.
//
// @Summary      Log a user in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.TokenPair
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/login/user [post]
func (h *AuthHandler) LoginUser(c echo.Context) error {
	return h.login(c, h.users)
}

// LoginAdmin handles POST /api/login/admin.
//
// @Summary      Log an admin in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.TokenPair
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/login/admin [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, h.admins)
}

// Refresh handles POST /api/refresh. Every failure answers 401 with the same
// body so callers learn nothing about why the token was refused.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  domain.TokenPair
// @Failure      401   {object}  errorResponse
// @Router       /api/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: invalidRefreshMessage})
	}

	pair, err := h.refresh.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		h.logger.Debug().Err(err).Msg("refresh rejected")
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: invalidRefreshMessage})
	}

	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, pair)
}

// Me handles GET /api/me and reports the caller's current identity.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := identityFrom(c)
	if err != nil {
		return err
	}

	current, err := h.resolver.Resolve(c.Request().Context(), caller.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{Username: current.Username, Role: current.Role})
}

// ListUsers handles GET /api/users.
//
// @Summary      List users
// @Tags         principals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Principal
// @Failure      403  {object}  errorResponse
// @Router       /api/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	return h.list(c, h.users)
}

// ListAdmins handles GET /api/admins.
//
// @Summary      List admins
// @Tags         principals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Principal
// @Failure      403  {object}  errorResponse
// @Router       /api/admins [get]
func (h *AuthHandler) ListAdmins(c echo.Context) error {
	return h.list(c, h.admins)
}

// GetUser handles GET /api/users/:id.
//
// @Summary      Get a user
// @Tags         principals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Principal id"
// @Success      200  {object}  domain.Principal
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	return h.get(c, h.users)
}

// GetAdmin handles GET /api/admins/:id.
//
// @Summary      Get an admin
// @Tags         principals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Principal id"
// @Success      200  {object}  domain.Principal
// @Failure      404  {object}  errorResponse
// @Router       /api/admins/{id} [get]
func (h *AuthHandler) GetAdmin(c echo.Context) error {
	return h.get(c, h.admins)
}

func (h *AuthHandler) register(c echo.Context, svc ports.AuthService) error {
	kind := string(svc.Kind())

	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(kind, "invalid_input").Inc()
		return err
	}

	p, err := svc.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	metrics.RegistrationsTotal.WithLabelValues(kind, metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AuthHandler) login(c echo.Context, svc ports.AuthService) error {
	kind := string(svc.Kind())

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(kind, "invalid_input").Inc()
		return err
	}

	start := time.Now()
	pair, err := svc.Login(c.Request().Context(), req.Username, req.Password)
	metrics.LoginDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.LoginsTotal.WithLabelValues(kind, metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) list(c echo.Context, svc ports.AuthService) error {
	principals, err := svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if principals == nil {
		principals = []*domain.Principal{}
	}
	return c.JSON(http.StatusOK, principals)
}

func (h *AuthHandler) get(c echo.Context, svc ports.AuthService) error {
	p, err := svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
