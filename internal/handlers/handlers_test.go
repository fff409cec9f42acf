package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"loa-character-lookup/internal/api"
	"loa-character-lookup/internal/credential"
	"loa-character-lookup/internal/models"
)

type fakeLookup struct {
	roster     models.Roster
	profile    *models.CharacterProfile
	rosterErr  error
	profileErr error
	names      chan string
}

func (f *fakeLookup) FetchRoster(_ context.Context, name string) (models.Roster, error) {
	if f.names != nil {
		f.names <- name
	}
	return f.roster, f.rosterErr
}

func (f *fakeLookup) FetchProfile(_ context.Context, name string) (*models.CharacterProfile, error) {
	if f.names != nil {
		f.names <- name
	}
	return f.profile, f.profileErr
}

func newTestRouter(lookup Lookup, store credential.Store) http.Handler {
	logger := arbor.NewLogger()
	resolver := credential.NewResolver(store, "default-key", logger)
	return NewRouter(New(lookup, store, resolver, logger))
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRosterHandler(t *testing.T) {
	lookup := &fakeLookup{
		roster: models.Roster{{ServerName: "루페온", CharacterName: "모코코", ItemAvgLevel: "1,640.00"}},
		names:  make(chan string, 1),
	}
	router := newTestRouter(lookup, credential.NewMemoryStore())

	rec := serve(t, router, http.MethodGet, "/api/characters/%EB%AA%A8%EC%BD%94%EC%BD%94/siblings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "모코코", <-lookup.names)

	var got models.Roster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, lookup.roster, got)
}

func TestProfileHandler(t *testing.T) {
	lookup := &fakeLookup{profile: &models.CharacterProfile{CharacterName: "모코코", ServerName: "루페온", TownLevel: 70}}
	router := newTestRouter(lookup, credential.NewMemoryStore())

	rec := serve(t, router, http.MethodGet, "/api/characters/%EB%AA%A8%EC%BD%94%EC%BD%94/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.CharacterProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *lookup.profile, got)
}

func TestCharacterHandler(t *testing.T) {
	lookup := &fakeLookup{
		roster:  models.Roster{{ServerName: "루페온", CharacterName: "모코코"}},
		profile: &models.CharacterProfile{CharacterName: "모코코", ServerName: "루페온"},
	}
	router := newTestRouter(lookup, credential.NewMemoryStore())

	rec := serve(t, router, http.MethodGet, "/api/characters/%EB%AA%A8%EC%BD%94%EC%BD%94", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got characterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "모코코", got.Profile.CharacterName)
	assert.Len(t, got.Roster, 1)
}

func TestLookupErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &api.Error{Kind: api.KindNotFound, Message: "캐릭터를 찾을 수 없습니다: x"}, http.StatusNotFound},
		{"rate limited", &api.Error{Kind: api.KindRateLimited, Message: "limit"}, http.StatusTooManyRequests},
		{"transport", &api.Error{Kind: api.KindTransport, StatusCode: 500, Message: "API 요청 실패: 500"}, http.StatusBadGateway},
		{"parse", &api.Error{Kind: api.KindParse, Message: "bad shape"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{rosterErr: tt.err, profileErr: tt.err}
			router := newTestRouter(lookup, credential.NewMemoryStore())

			for _, path := range []string{"/api/characters/x/siblings", "/api/characters/x/profile", "/api/characters/x"} {
				rec := serve(t, router, http.MethodGet, path, "")
				assert.Equal(t, tt.status, rec.Code, path)

				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.err.(*api.Error).Message, body["error"], path)
			}
		})
	}
}

func TestAPIKeySettings(t *testing.T) {
	store := credential.NewMemoryStore()
	router := newTestRouter(&fakeLookup{}, store)

	source := func(rec *httptest.ResponseRecorder) credential.Source {
		var body apiKeyStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Source
	}

	rec := serve(t, router, http.MethodGet, "/api/settings/api-key", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, credential.SourceDefault, source(rec))

	rec = serve(t, router, http.MethodPut, "/api/settings/api-key", `{"api_key":" user-key "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, credential.SourceStored, source(rec))
	assert.NotContains(t, rec.Body.String(), "user-key")

	stored, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-key", stored)

	rec = serve(t, router, http.MethodDelete, "/api/settings/api-key", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, credential.SourceDefault, source(rec))

	stored, err = store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", stored)
}

func TestSaveAPIKey_BadRequest(t *testing.T) {
	router := newTestRouter(&fakeLookup{}, credential.NewMemoryStore())

	for _, body := range []string{`{"api_key":""}`, `{"api_key":"   "}`, `not json`} {
		rec := serve(t, router, http.MethodPut, "/api/settings/api-key", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&fakeLookup{}, credential.NewMemoryStore())

	rec := serve(t, router, http.MethodPost, "/api/characters/x/profile", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
