package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/api/response"
	"github.com/rollcall-app/rollcall/internal/identity"
	"github.com/rollcall-app/rollcall/internal/member"
)

// fakeVerifier resolves tokens from a fixed map; anything else is rejected.
type fakeVerifier struct {
	identities map[string]*identity.Identity
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if id, ok := f.identities[token]; ok {
		return id, nil
	}
	return nil, identity.ErrUnauthenticated
}

const (
	adminToken  = "admin-token"
	memberToken = "member-token"
)

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{identities: map[string]*identity.Identity{
		adminToken:  {UID: "admin-uid", Email: "admin@example.org", Claims: map[string]any{"admin": true}},
		memberToken: {UID: "member-uid", Email: "member@example.org", Claims: map[string]any{}},
	}}
}

// mockMemberRepo implements member.Repository with function fields.
type mockMemberRepo struct {
	upsertFn  func(ctx context.Context, m *member.Member) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*member.Member, error)
	listFn    func(ctx context.Context) ([]member.Member, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockMemberRepo) Upsert(ctx context.Context, mm *member.Member) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, mm)
	}
	return nil
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, member.ErrMemberNotFound
}

func (m *mockMemberRepo) List(ctx context.Context) ([]member.Member, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []member.Member{}, nil
}

func (m *mockMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// stubGraphRepo implements accessgraph.Repository with function fields.
type stubGraphRepo struct {
	createGroupFn   func(ctx context.Context, g *accessgraph.AccessGroup) error
	listGroupsFn    func(ctx context.Context) ([]accessgraph.AccessGroup, error)
	createSectionFn func(ctx context.Context, s *accessgraph.Section) error
	listSectionsFn  func(ctx context.Context) ([]accessgraph.Section, error)
	addMemberFn     func(ctx context.Context, memberID, groupID uuid.UUID) (accessgraph.JoinOutcome, error)
	removeMemberFn  func(ctx context.Context, memberID, groupID uuid.UUID) (accessgraph.JoinOutcome, error)
	grantSectionFn  func(ctx context.Context, sectionID, groupID uuid.UUID) (accessgraph.JoinOutcome, error)
	revokeSectionFn func(ctx context.Context, sectionID, groupID uuid.UUID) (accessgraph.JoinOutcome, error)
	groupsForFn     func(ctx context.Context, memberID uuid.UUID) ([]accessgraph.AccessGroup, error)
	sectionsForFn   func(ctx context.Context, groupID uuid.UUID) ([]accessgraph.Section, error)
}

func (s *stubGraphRepo) CreateAccessGroup(ctx context.Context, g *accessgraph.AccessGroup) error {
	if s.createGroupFn != nil {
		return s.createGroupFn(ctx, g)
	}
	g.ID = uuid.New()
	return nil
}

func (s *stubGraphRepo) GetAccessGroupByID(context.Context, uuid.UUID) (*accessgraph.AccessGroup, error) {
	return nil, accessgraph.ErrGroupNotFound
}

func (s *stubGraphRepo) ListAccessGroups(ctx context.Context) ([]accessgraph.AccessGroup, error) {
	if s.listGroupsFn != nil {
		return s.listGroupsFn(ctx)
	}
	return []accessgraph.AccessGroup{}, nil
}

func (s *stubGraphRepo) CreateSection(ctx context.Context, sec *accessgraph.Section) error {
	if s.createSectionFn != nil {
		return s.createSectionFn(ctx, sec)
	}
	sec.ID = uuid.New()
	return nil
}

func (s *stubGraphRepo) GetSectionByID(context.Context, uuid.UUID) (*accessgraph.Section, error) {
	return nil, accessgraph.ErrSectionNotFound
}

func (s *stubGraphRepo) ListSections(ctx context.Context) ([]accessgraph.Section, error) {
	if s.listSectionsFn != nil {
		return s.listSectionsFn(ctx)
	}
	return []accessgraph.Section{}, nil
}

func (s *stubGraphRepo) AddMemberToGroup(ctx context.Context, memberID, groupID uuid.UUID) (accessgraph.JoinOutcome, error) {
	if s.addMemberFn != nil {
		return s.addMemberFn(ctx, memberID, groupID)
	}
	return accessgraph.JoinCreated, nil
}

func (s *stubGraphRepo) RemoveMemberFromGroup(ctx context.Context, memberID, groupID uuid.UUID) (accessgraph.JoinOutcome, error) {
	if s.removeMemberFn != nil {
		return s.removeMemberFn(ctx, memberID, groupID)
	}
	return accessgraph.JoinRemoved, nil
}

func (s *stubGraphRepo) GrantSectionToGroup(ctx context.Context, sectionID, groupID uuid.UUID) (accessgraph.JoinOutcome, error) {
	if s.grantSectionFn != nil {
		return s.grantSectionFn(ctx, sectionID, groupID)
	}
	return accessgraph.JoinCreated, nil
}

func (s *stubGraphRepo) RevokeSectionFromGroup(ctx context.Context, sectionID, groupID uuid.UUID) (accessgraph.JoinOutcome, error) {
	if s.revokeSectionFn != nil {
		return s.revokeSectionFn(ctx, sectionID, groupID)
	}
	return accessgraph.JoinRemoved, nil
}

func (s *stubGraphRepo) GroupsForMember(ctx context.Context, memberID uuid.UUID) ([]accessgraph.AccessGroup, error) {
	if s.groupsForFn != nil {
		return s.groupsForFn(ctx, memberID)
	}
	return []accessgraph.AccessGroup{}, nil
}

func (s *stubGraphRepo) SectionsForGroup(ctx context.Context, groupID uuid.UUID) ([]accessgraph.Section, error) {
	if s.sectionsForFn != nil {
		return s.sectionsForFn(ctx, groupID)
	}
	return []accessgraph.Section{}, nil
}

// newRequest builds a request with chi URL params installed on the context.
func newRequest(t *testing.T, method, target string, body string, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

// envelope mirrors response.Envelope with raw data for per-test decoding.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *response.Error `json:"error"`
	Meta  struct {
		RequestID string `json:"requestId"`
		Total     int    `json:"total"`
	} `json:"meta"`
}

func parseEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
