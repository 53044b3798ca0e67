package server

import (
	"errors"
	"fmt"
	"net/http"

	"Vitalog/internal/apperror"
	"Vitalog/internal/utility"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders every error as {"error": message}. Echo's own
// errors keep their status; anything else goes through apperror.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status  int
		message string
	)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
		if status >= http.StatusInternalServerError {
			utility.GetLogger(c).Error().Err(err).Msg("echo error")
		}
	} else {
		appErr := apperror.From(err)
		status = appErr.HTTPStatus()
		message = appErr.Message
		appErr.LogEvent(utility.GetLogger(c).Error()).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, map[string]string{"error": message})
	}
	if err != nil {
		utility.GetLogger(c).Error().Err(err).Msg("failed to write error response")
	}
}
