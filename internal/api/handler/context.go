package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skillswap-api/internal/api/middleware"
	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// identityFrom reads the identity stored by the Auth middleware. A missing
// username or role means the route was mounted without Auth.
func identityFrom(c echo.Context) (domain.AuthIdentity, error) {
	username, _ := c.Get(middleware.KeyUsername).(string)
	role, _ := c.Get(middleware.KeyRole).(string)
	if username == "" || role == "" {
		return domain.AuthIdentity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.AuthIdentity{Username: username, Role: domain.Role(role)}, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// errorResponse is the error envelope written by the API: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}
