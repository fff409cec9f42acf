package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"loa-character-lookup/internal/api"
	"loa-character-lookup/internal/credential"
	"loa-character-lookup/internal/models"
)

// Lookup is the part of api.Client the handlers need.
type Lookup interface {
	FetchRoster(ctx context.Context, characterName string) (models.Roster, error)
	FetchProfile(ctx context.Context, characterName string) (*models.CharacterProfile, error)
}

// Handler serves character lookups and the API key settings.
type Handler struct {
	lookup   Lookup
	store    credential.Store
	resolver *credential.Resolver
	logger   arbor.ILogger
}

func New(lookup Lookup, store credential.Store, resolver *credential.Resolver, logger arbor.ILogger) *Handler {
	return &Handler{lookup: lookup, store: store, resolver: resolver, logger: logger}
}

// NewRouter registers all routes of h.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/characters/{name}", h.CharacterHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/characters/{name}/siblings", h.RosterHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/characters/{name}/profile", h.ProfileHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/settings/api-key", h.GetAPIKeyHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/settings/api-key", h.SaveAPIKeyHandler).Methods(http.MethodPut)
	r.HandleFunc("/api/settings/api-key", h.ClearAPIKeyHandler).Methods(http.MethodDelete)
	return r
}

// RosterHandler returns every character on the expedition of {name}.
func (h *Handler) RosterHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	roster, err := h.lookup.FetchRoster(r.Context(), name)
	if err != nil {
		h.writeLookupError(w, "RosterHandler", name, err)
		return
	}
	h.writeJSON(w, http.StatusOK, roster)
}

// ProfileHandler returns the armory profile of {name}.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	profile, err := h.lookup.FetchProfile(r.Context(), name)
	if err != nil {
		h.writeLookupError(w, "ProfileHandler", name, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

type characterResponse struct {
	Profile *models.CharacterProfile `json:"profile"`
	Roster  models.Roster            `json:"roster"`
}

// CharacterHandler fetches profile and roster of {name} in parallel.
func (h *Handler) CharacterHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var resp characterResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		profile, err := h.lookup.FetchProfile(ctx, name)
		resp.Profile = profile
		return err
	})
	g.Go(func() error {
		roster, err := h.lookup.FetchRoster(ctx, name)
		resp.Roster = roster
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeLookupError(w, "CharacterHandler", name, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type apiKeyStatus struct {
	Source credential.Source `json:"source"`
}

// GetAPIKeyHandler reports which API key is in effect. The key itself is
// never returned.
func (h *Handler) GetAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, apiKeyStatus{Source: h.resolver.Source(r.Context())})
}

type saveAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// SaveAPIKeyHandler persists the API key from the request body.
func (h *Handler) SaveAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req saveAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := h.store.Write(r.Context(), key); err != nil {
		h.logger.Error().Err(err).Msg("SaveAPIKeyHandler: Failed to store API key")
		h.writeError(w, http.StatusInternalServerError, "failed to store API key")
		return
	}

	h.logger.Info().Msg("SaveAPIKeyHandler: API key updated")
	h.writeJSON(w, http.StatusOK, apiKeyStatus{Source: h.resolver.Source(r.Context())})
}

// ClearAPIKeyHandler removes the stored API key; the default key applies again.
func (h *Handler) ClearAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("ClearAPIKeyHandler: Failed to clear API key")
		h.writeError(w, http.StatusInternalServerError, "failed to clear API key")
		return
	}

	h.logger.Info().Msg("ClearAPIKeyHandler: API key cleared")
	h.writeJSON(w, http.StatusOK, apiKeyStatus{Source: h.resolver.Source(r.Context())})
}

// writeLookupError maps an API failure to a response status.
func (h *Handler) writeLookupError(w http.ResponseWriter, handler, name string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, api.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, api.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	message := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		message = apiErr.Message
	}

	h.logger.Warn().Err(err).Str("handler", handler).Str("character", name).Int("status", status).Msg("Character lookup failed")
	h.writeError(w, status, message)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write response")
	}
}
