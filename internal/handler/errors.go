package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"planner/internal/calendar"
	"planner/internal/middleware"
	"planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError maps service error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, ""
	switch {
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrInvalidOrderPayload):
		status, code = http.StatusBadRequest, "invalid_order_payload"
	case errors.Is(err, service.ErrInvalidRuleParameters):
		status, code = http.StatusUnprocessableEntity, "invalid_rule_parameters"
	case errors.Is(err, service.ErrStorageConflict):
		status, code = http.StatusConflict, "storage_conflict"
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// respondBindError reports a body that failed to decode or validate.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "invalid_request"})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "invalid_request", Fields: fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid":
		return "must be a uuid"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// currentUser reads the authenticated user id or answers 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Invalid %s format", name), Code: "invalid_request"})
		return uuid.Nil, false
	}
	return id, true
}

func pathDate(c *gin.Context) (time.Time, bool) {
	d, err := calendar.Parse(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD", Code: "invalid_request"})
		return time.Time{}, false
	}
	return d, true
}
