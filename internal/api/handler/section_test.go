package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/api/handler"
)

func TestSectionCreate(t *testing.T) {
	var saved *accessgraph.Section
	repo := &stubGraphRepo{
		createSectionFn: func(_ context.Context, s *accessgraph.Section) error {
			s.ID = uuid.New()
			s.CreatedAt = time.Now()
			s.UpdatedAt = s.CreatedAt
			saved = s
			return nil
		},
	}
	h := handler.NewSectionHandler(repo)

	req := newRequest(t, http.MethodPost, "/sections", `{"name":"Parades","type":"EVENTS"}`, nil)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, saved)
	assert.Equal(t, accessgraph.SectionEvents, saved.Type)
}

func TestSectionCreate_InvalidType(t *testing.T) {
	h := handler.NewSectionHandler(&stubGraphRepo{})

	req := newRequest(t, http.MethodPost, "/sections", `{"name":"Parades","type":"CALENDAR"}`, nil)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := parseEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSectionList(t *testing.T) {
	repo := &stubGraphRepo{
		listSectionsFn: func(context.Context) ([]accessgraph.Section, error) {
			return []accessgraph.Section{
				{ID: uuid.New(), Name: "Roster", Type: accessgraph.SectionMembers},
			}, nil
		},
	}
	h := handler.NewSectionHandler(repo)

	req := newRequest(t, http.MethodGet, "/sections", "", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := parseEnvelope(t, rec)
	require.Nil(t, env.Error)
	assert.Equal(t, 1, env.Meta.Total)
}

func TestSectionGrantGroup_Created(t *testing.T) {
	h := handler.NewSectionHandler(&stubGraphRepo{})

	params := map[string]string{"id": uuid.NewString(), "groupID": uuid.NewString()}
	req := newRequest(t, http.MethodPut, "/sections/x/access-groups/y", "", params)
	rec := httptest.NewRecorder()
	h.GrantGroup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := parseEnvelope(t, rec)
	var got struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "created", got.Outcome)
}

func TestSectionGrantGroup_AlreadyExists(t *testing.T) {
	repo := &stubGraphRepo{
		grantSectionFn: func(context.Context, uuid.UUID, uuid.UUID) (accessgraph.JoinOutcome, error) {
			return accessgraph.JoinExists, nil
		},
	}
	h := handler.NewSectionHandler(repo)

	params := map[string]string{"id": uuid.NewString(), "groupID": uuid.NewString()}
	req := newRequest(t, http.MethodPut, "/sections/x/access-groups/y", "", params)
	rec := httptest.NewRecorder()
	h.GrantGroup(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSectionRevokeGroup_Absent(t *testing.T) {
	repo := &stubGraphRepo{
		revokeSectionFn: func(context.Context, uuid.UUID, uuid.UUID) (accessgraph.JoinOutcome, error) {
			return accessgraph.JoinAbsent, nil
		},
	}
	h := handler.NewSectionHandler(repo)

	params := map[string]string{"id": uuid.NewString(), "groupID": uuid.NewString()}
	req := newRequest(t, http.MethodDelete, "/sections/x/access-groups/y", "", params)
	rec := httptest.NewRecorder()
	h.RevokeGroup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "revoking an absent grant is a no-op success")
	env := parseEnvelope(t, rec)
	var got struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "not-present", got.Outcome)
}
