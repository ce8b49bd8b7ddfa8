package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/billingcat/userapi/model"
	"github.com/labstack/echo/v4"
)

type APIFieldError struct {
	Field   string `json:"field" xml:"field,attr"`
	Message string `json:"message" xml:",chardata"`
}

type APIError struct {
	XMLName struct{}        `json:"-" xml:"error"`
	Code    string          `json:"code" xml:"code"`
	Message string          `json:"message" xml:"message"`
	Fields  []APIFieldError `json:"fields,omitempty" xml:"fields>field,omitempty"`
}

func apiError(code, msg string) *APIError { return &APIError{Code: code, Message: msg} }

func apiValidationError(verr *model.ValidationError) *APIError {
	ae := apiError("validation_error", "invalid input")
	for _, f := range verr.Fields {
		ae.Fields = append(ae.Fields, APIFieldError{Field: f.Field, Message: f.Message})
	}
	return ae
}

func wantsXML(c echo.Context) bool {
	if c.QueryParam("format") == "xml" {
		return true
	}
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, "application/xml") || strings.Contains(accept, "text/xml")
}

func respond(c echo.Context, status int, v any) error {
	if wantsXML(c) {
		return c.XML(status, v)
	}
	return c.JSON(status, v)
}

// requestLogger returns the request-scoped logger set by the access log middleware.
func requestLogger(c echo.Context) *slog.Logger {
	if l, ok := c.Get("logger").(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// respondStorageError answers a failed operation: validation errors list the
// failing fields, everything else is an opaque db_error.
func respondStorageError(c echo.Context, err error, msg string) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return respond(c, http.StatusBadRequest, apiValidationError(verr))
	case errors.Is(err, context.Canceled):
		requestLogger(c).Info("request canceled", "error", err)
		return respond(c, http.StatusServiceUnavailable, apiError("canceled", "request canceled"))
	case errors.Is(err, context.DeadlineExceeded):
		requestLogger(c).Warn("storage timeout", "error", err)
		return respond(c, http.StatusGatewayTimeout, apiError("timeout", msg))
	default:
		requestLogger(c).Error("storage failure", "error", err)
		return respond(c, http.StatusInternalServerError, apiError("db_error", msg))
	}
}
