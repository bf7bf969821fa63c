package serviceutils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/logger"
)

// ResponseSuccess writes a success envelope with the given payload entries.
func ResponseSuccess(c echo.Context, extra map[string]interface{}) error {
	msg := domain.Success()
	for k, v := range extra {
		msg.Add(k, v)
	}
	return c.JSON(http.StatusOK, msg)
}

// ResponseFail writes a fail envelope for a business or validation failure. The HTTP status
// stays 200: the envelope status is what callers branch on.
func ResponseFail(c echo.Context, key string, value interface{}) error {
	return c.JSON(http.StatusOK, domain.Fail().Add(key, value))
}

// ResponseError logs err and writes a fail envelope with the given HTTP status.
func ResponseError(c echo.Context, status int, message string, err error) error {
	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		logger.ErrorLog(ctx, message, err)
	} else {
		logger.WarnLog(ctx, "%s: %v", message, err)
	}
	return c.JSON(status, domain.Fail().WithMessage(message))
}

// HTTPErrorHandler renders errors that escape handlers (unknown routes, wrong methods,
// recovered panics) as fail envelopes.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
		if he.Internal != nil {
			err = he.Internal
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = ResponseError(c, status, message, err)
	}
	if err != nil {
		logger.ErrorLog(c.Request().Context(), "write error response", err)
	}
}
