package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"

	"github.com/buzzcrank/crankfeed/internal/domain"
)

const MissingConfigurationMessage = "Missing configuration."

type errorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// OK writes payload as JSON. Bodies carry an ETag and a matching
// If-None-Match short-circuits to 304.
func OK(c echo.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return InternalError(c, "Failed to encode response.", err)
	}
	return Raw(c, body)
}

// Raw writes an already encoded JSON body unchanged.
func Raw(c echo.Context, body []byte) error {
	header := c.Response().Header()
	header.Set(echo.HeaderAccessControlAllowOrigin, "*")

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	header.Set(echo.HeaderCacheControl, "no-cache")
	header.Set("ETag", etag)
	if match := c.Request().Header.Get("If-None-Match"); match != "" && match == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// InternalError answers 500 with {ok:false, error, details}. Configuration
// problems replace message so callers can tell them from upstream failures.
func InternalError(c echo.Context, message string, err error) error {
	c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")

	if errors.Is(err, domain.ErrConfiguration) {
		message = MissingConfigurationMessage
	}
	details := ""
	if err != nil {
		details = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{
		OK:      false,
		Error:   message,
		Details: details,
	})
}
