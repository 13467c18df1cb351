package http

import (
	"net/http"

	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

type itemCreatePayload struct {
	Title             string      `json:"title"`
	Slug              string      `json:"slug,omitempty"`
	Body              string      `json:"body,omitempty"`
	Language          string      `json:"language"`
	CategoryID        *uuid.UUID  `json:"category_id,omitempty"`
	ClassificationIDs []uuid.UUID `json:"classification_ids,omitempty"`
}

type transitionPayload struct {
	Action         string         `json:"action"`
	AssignedUserID *uuid.UUID     `json:"assignedUserId,omitempty"`
	ExpectedStage  string         `json:"expectedStage,omitempty"`
	ChecklistData  map[string]any `json:"checklistData,omitempty"`
}

type transitionResponse struct {
	Item                  *items.Item                   `json:"item"`
	Action                string                        `json:"action"`
	FromStage             string                        `json:"from_stage"`
	ToStage               string                        `json:"to_stage"`
	ParentAdvanced        bool                          `json:"parent_advanced"`
	TranslationsPublished int                           `json:"translations_published"`
	Translations          *translations.Progress        `json:"translations,omitempty"`
	Effects               []interfaces.TransitionEffect `json:"effects,omitempty"`
}

type fanOutPayload struct {
	Targets []fanOutTargetPayload `json:"targets"`
}

type fanOutTargetPayload struct {
	Language   string     `json:"language"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
}

type readinessResponse struct {
	CanTransition bool            `json:"canTransition"`
	Issues        []string        `json:"issues"`
	Checks        map[string]bool `json:"checks"`
}

func (api *API) registerItemRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "items")
	mux.HandleFunc("POST "+root, api.handleItemCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleItemGet)
	mux.HandleFunc("POST "+root+"/{id}/transition", api.handleItemTransition)
	mux.HandleFunc("GET "+root+"/{id}/transition-readiness", api.handleItemReadiness)
	mux.HandleFunc("POST "+root+"/{id}/translations", api.handleItemFanOut)
	mux.HandleFunc("GET "+root+"/{id}/translations", api.handleItemTranslations)
}

func (api *API) handleItemCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.items == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	actor, ok := api.currentActor(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	var payload itemCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid json payload"})
		return
	}
	record, err := api.items.Create(r.Context(), items.CreateItemRequest{
		Title:             payload.Title,
		Slug:              payload.Slug,
		Body:              payload.Body,
		Language:          payload.Language,
		Author:            identity.FromContract(actor),
		CategoryID:        payload.CategoryID,
		ClassificationIDs: payload.ClassificationIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *API) handleItemGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.items == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleItemTransition(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.engine == nil || api.items == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	actor, ok := api.currentActor(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload transitionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid json payload"})
		return
	}

	result, err := api.engine.Transition(r.Context(), interfaces.TransitionRequest{
		ItemID:        id,
		Actor:         actor,
		Action:        interfaces.Action(payload.Action),
		AssigneeID:    payload.AssignedUserID,
		ExpectedStage: interfaces.Stage(payload.ExpectedStage),
		Metadata:      payload.ChecklistData,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := api.items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response := transitionResponse{
		Item:                  record,
		Action:                string(result.Action),
		FromStage:             string(result.FromStage),
		ToStage:               string(result.ToStage),
		ParentAdvanced:        result.ParentAdvanced,
		TranslationsPublished: result.TranslationsPublished,
		Effects:               result.Effects,
	}
	if api.translations != nil && !record.IsTranslation {
		if progress, err := api.translations.Progress(r.Context(), record.ID); err == nil {
			response.Translations = progress
		}
	}
	writeJSON(w, http.StatusOK, response)
}

func (api *API) handleItemReadiness(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.engine == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	actor, ok := api.currentActor(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}

	report, err := api.engine.Readiness(r.Context(), interfaces.TransitionRequest{
		ItemID: id,
		Actor:  actor,
		Action: interfaces.Action(r.URL.Query().Get("action")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readinessResponse{
		CanTransition: report.CanTransition,
		Issues:        report.Issues,
		Checks:        report.Checks,
	})
}

func (api *API) handleItemFanOut(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.translations == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	actor, ok := api.currentActor(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload fanOutPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid json payload"})
		return
	}

	targets := make([]translations.FanOutTarget, 0, len(payload.Targets))
	for _, target := range payload.Targets {
		out := translations.FanOutTarget{Language: target.Language}
		if target.AssigneeID != nil {
			out.AssigneeID = *target.AssigneeID
		}
		targets = append(targets, out)
	}

	created, err := api.translations.FanOut(r.Context(), translations.FanOutRequest{
		ParentID: id,
		Actor:    identity.FromContract(actor),
		Targets:  targets,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *API) handleItemTranslations(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.items == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	records, err := api.items.Translations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
