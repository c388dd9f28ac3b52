package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

// TranslateRequest is the body of POST /api/translate.
type TranslateRequest struct {
	Input     string `json:"input"`
	Direction string `json:"direction"`
	Model     string `json:"model,omitempty"`
}

// TranslateResponse is returned for every attempted translation.
type TranslateResponse struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output"`
	Reason  string `json:"reason,omitempty"`
}

// FlagsResponse is the body of GET /api/flags.
type FlagsResponse struct {
	Flags []flags.Entry `json:"flags"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOptions(c echo.Context) error {
	opts, err := s.service.Options(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, opts)
}

func (s *Server) handleTranslate(c echo.Context) error {
	var req TranslateRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}

	// An unrecognized direction is answered by the service with the
	// invalid-selection result.
	direction, _ := translate.ParseDirection(req.Direction)

	res, err := s.service.Translate(c.Request().Context(), req.Input, direction, req.Model)
	if err != nil {
		return toHTTPError(err)
	}

	body := TranslateResponse{
		Outcome: res.Outcome.String(),
		Output:  res.Display(),
		Reason:  res.Reason,
	}
	switch res.Outcome {
	case translate.OutcomeSuccess:
		return c.JSON(http.StatusOK, body)
	case translate.OutcomeInvalidDirection:
		return c.JSON(http.StatusBadRequest, body)
	default:
		return c.JSON(http.StatusBadGateway, body)
	}
}

func (s *Server) handleFlag(c echo.Context) error {
	var req ui.FlagRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}

	entry, err := s.service.Flag(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleListFlags(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return requestError{
				Status:  http.StatusBadRequest,
				Message: "limit must be a non-negative integer",
				Type:    "invalid_request_error",
			}
		}
		limit = n
	}

	entries, err := s.service.ListFlags(c.Request().Context(), limit)
	if err != nil {
		return toHTTPError(err)
	}
	if entries == nil {
		entries = []flags.Entry{}
	}
	return c.JSON(http.StatusOK, FlagsResponse{Flags: entries})
}

func (s *Server) handleGetFlag(c echo.Context) error {
	entry, err := s.service.GetFlag(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, entry)
}
