package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

type requestError struct {
	Status  int
	Message string
	Type    string
}

func (e requestError) Error() string {
	return e.Message
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, message, errType string) error {
	var payload errorBody
	payload.Error.Message = message
	payload.Error.Type = errType
	return c.JSON(status, payload)
}

func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var reqErr requestError
	if errors.As(err, &reqErr) {
		_ = writeError(c, reqErr.Status, reqErr.Message, reqErr.Type)
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = writeError(c, he.Code, http.StatusText(he.Code), "invalid_request_error")
		return
	}

	_ = writeError(c, http.StatusInternalServerError, "internal server error", "server_error")
}

// toHTTPError maps service errors to response statuses.
func toHTTPError(err error) error {
	var reqErr requestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr
	case errors.Is(err, ui.ErrUnknownModel), errors.Is(err, translate.ErrInvalidDirection):
		return requestError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Type:    "invalid_request_error",
		}
	case errors.Is(err, flags.ErrDisabled):
		return requestError{
			Status:  http.StatusServiceUnavailable,
			Message: err.Error(),
			Type:    "flagging_disabled",
		}
	case errors.Is(err, flags.ErrNotFound):
		return requestError{
			Status:  http.StatusNotFound,
			Message: err.Error(),
			Type:    "not_found",
		}
	default:
		return requestError{
			Status:  http.StatusInternalServerError,
			Message: "internal server error",
			Type:    "server_error",
		}
	}
}
