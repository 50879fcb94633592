package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-certification/internal/handler"
)

// HTTPErrorHandler renders every error as {code, name, description}.
// Validation failures additionally carry the full problem list; anything
// untyped falls through to a 500 with the raw error message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	description := err.Error()
	var problems []string

	var verr *handler.ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		code = http.StatusUnprocessableEntity
		description = "validation failed"
		problems = verr.Problems
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			description = msg
		}
	}

	body := echo.Map{
		"code":        code,
		"name":        http.StatusText(code),
		"description": description,
	}
	if problems != nil {
		body["problems"] = problems
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
