package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxLogin extracts the authenticated login injected by the Auth middleware
// and fast-fails before any service call: a missing login claim means the
// middleware did not run or the token carries no usable identity.
func ctxLogin(c echo.Context) (string, error) {
	login, _ := c.Get("login").(string)
	if login == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return login, nil
}
