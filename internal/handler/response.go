package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// fail writes the common error envelope: a false success flag and a
// human-readable message. Internal error detail never goes here; it is
// logged server-side instead.
func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"success": false, "error": msg})
}

// ok writes a 200 success envelope with any extra fields merged in.
func ok(c echo.Context, fields echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}
