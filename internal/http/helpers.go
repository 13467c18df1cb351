package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/stations"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/internal/workflow"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Issues  []string `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var itemNotFound *items.NotFoundError
	if errors.As(err, &itemNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: itemNotFound.Error(),
		}
	}

	var stationNotFound *stations.NotFoundError
	if errors.As(err, &stationNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: stationNotFound.Error(),
		}
	}

	var classificationNotFound *classification.NotFoundError
	if errors.As(err, &classificationNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: classificationNotFound.Error(),
		}
	}

	if errors.Is(err, workflow.ErrForbidden) {
		// Unauthorized actors learn that they may not act, never why.
		return http.StatusForbidden, errorResponse{
			Error:   "forbidden",
			Message: workflow.ErrForbidden.Error(),
		}
	}

	var guard *workflow.GuardError
	if errors.As(err, &guard) {
		issues := make([]string, 0, len(guard.Missing))
		for _, requirement := range guard.Missing {
			issues = append(issues, requirement.Message)
		}
		return http.StatusBadRequest, errorResponse{
			Error:   "guard_failed",
			Message: guard.Error(),
			Issues:  issues,
		}
	}
	if errors.Is(err, workflow.ErrGuardFailed) {
		return http.StatusBadRequest, errorResponse{
			Error:   "guard_failed",
			Message: err.Error(),
		}
	}

	if errors.Is(err, workflow.ErrInvalidTransition) {
		return http.StatusConflict, errorResponse{
			Error:   "invalid_transition",
			Message: err.Error(),
		}
	}

	if errors.Is(err, translations.ErrAlreadyFannedOut) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, workflow.ErrValidation) ||
		errors.Is(err, translations.ErrParentNotApproved) ||
		errors.Is(err, translations.ErrParentIsTranslation) ||
		errors.Is(err, translations.ErrNoTargetLanguages) ||
		errors.Is(err, items.ErrTitleRequired) ||
		errors.Is(err, items.ErrLanguageRequired) ||
		errors.Is(err, items.ErrAuthorRequired) ||
		errors.Is(err, items.ErrSlugInvalid) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	if errors.Is(err, items.ErrSlugExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func parseIntQuery(value string, defaultValue int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}
