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

func TestAccessGroupCreate(t *testing.T) {
	var saved *accessgraph.AccessGroup
	repo := &stubGraphRepo{
		createGroupFn: func(_ context.Context, g *accessgraph.AccessGroup) error {
			g.ID = uuid.New()
			g.CreatedAt = time.Now()
			g.UpdatedAt = g.CreatedAt
			saved = g
			return nil
		},
	}
	h := handler.NewAccessGroupHandler(repo)

	req := newRequest(t, http.MethodPost, "/access-groups", `{"name":"Committee","description":"Branch committee"}`, nil)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, saved)
	assert.Equal(t, "Committee", saved.Name)

	env := parseEnvelope(t, rec)
	require.Nil(t, env.Error)
	var got struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Committee", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Branch committee", *got.Description)
}

func TestAccessGroupCreate_MissingName(t *testing.T) {
	h := handler.NewAccessGroupHandler(&stubGraphRepo{})

	req := newRequest(t, http.MethodPost, "/access-groups", `{"name":"  "}`, nil)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := parseEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAccessGroupCreate_DuplicateName(t *testing.T) {
	repo := &stubGraphRepo{
		createGroupFn: func(context.Context, *accessgraph.AccessGroup) error {
			return accessgraph.ErrDuplicateGroupName
		},
	}
	h := handler.NewAccessGroupHandler(repo)

	req := newRequest(t, http.MethodPost, "/access-groups", `{"name":"Committee"}`, nil)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := parseEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_NAME", env.Error.Code)
}

func TestAccessGroupAddMember_Created(t *testing.T) {
	h := handler.NewAccessGroupHandler(&stubGraphRepo{})

	params := map[string]string{"id": uuid.NewString(), "memberID": uuid.NewString()}
	req := newRequest(t, http.MethodPut, "/access-groups/x/members/y", "", params)
	rec := httptest.NewRecorder()
	h.AddMember(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := parseEnvelope(t, rec)
	var got struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "created", got.Outcome)
}

func TestAccessGroupAddMember_AlreadyExists(t *testing.T) {
	repo := &stubGraphRepo{
		addMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (accessgraph.JoinOutcome, error) {
			return accessgraph.JoinExists, nil
		},
	}
	h := handler.NewAccessGroupHandler(repo)

	params := map[string]string{"id": uuid.NewString(), "memberID": uuid.NewString()}
	req := newRequest(t, http.MethodPut, "/access-groups/x/members/y", "", params)
	rec := httptest.NewRecorder()
	h.AddMember(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "re-adding is a no-op success")
	env := parseEnvelope(t, rec)
	var got struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "already-exists", got.Outcome)
}

func TestAccessGroupAddMember_UnknownEntity(t *testing.T) {
	repo := &stubGraphRepo{
		addMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (accessgraph.JoinOutcome, error) {
			return "", accessgraph.ErrUnknownEntity
		},
	}
	h := handler.NewAccessGroupHandler(repo)

	params := map[string]string{"id": uuid.NewString(), "memberID": uuid.NewString()}
	req := newRequest(t, http.MethodPut, "/access-groups/x/members/y", "", params)
	rec := httptest.NewRecorder()
	h.AddMember(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := parseEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_ENTITY", env.Error.Code)
}

func TestAccessGroupRemoveMember_Absent(t *testing.T) {
	repo := &stubGraphRepo{
		removeMemberFn: func(context.Context, uuid.UUID, uuid.UUID) (accessgraph.JoinOutcome, error) {
			return accessgraph.JoinAbsent, nil
		},
	}
	h := handler.NewAccessGroupHandler(repo)

	params := map[string]string{"id": uuid.NewString(), "memberID": uuid.NewString()}
	req := newRequest(t, http.MethodDelete, "/access-groups/x/members/y", "", params)
	rec := httptest.NewRecorder()
	h.RemoveMember(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "removing an absent membership is a no-op success")
	env := parseEnvelope(t, rec)
	var got struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "not-present", got.Outcome)
}

func TestAccessGroupAddMember_InvalidUUID(t *testing.T) {
	h := handler.NewAccessGroupHandler(&stubGraphRepo{})

	params := map[string]string{"id": uuid.NewString(), "memberID": "nope"}
	req := newRequest(t, http.MethodPut, "/access-groups/x/members/nope", "", params)
	rec := httptest.NewRecorder()
	h.AddMember(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := parseEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
}
