package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

const testToken = "test-token-123"

// memProfileRepo is an in-memory domain.ProfileRepository for handler tests.
type memProfileRepo struct {
	profiles map[uuid.UUID]*domain.InvestorProfile
}

func newMemProfileRepo(profiles ...*domain.InvestorProfile) *memProfileRepo {
	repo := &memProfileRepo{profiles: make(map[uuid.UUID]*domain.InvestorProfile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *memProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.InvestorProfile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (r *memProfileRepo) List(_ context.Context) ([]*domain.InvestorProfile, error) {
	profiles := make([]*domain.InvestorProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *memProfileRepo) SaveSnapshot(_ context.Context, _ *domain.InvestorProfile) error {
	return nil
}

// stubRecalculator records invocations and serves canned snapshots.
type stubRecalculator struct {
	snapshots  map[uuid.UUID]*domain.WealthSnapshot
	batchErr   error
	lastForce  bool
	batchCalls int
}

func (s *stubRecalculator) Recalculate(_ context.Context, profileID uuid.UUID, force bool) (*domain.WealthSnapshot, error) {
	s.lastForce = force
	snapshot, ok := s.snapshots[profileID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return snapshot, nil
}

func (s *stubRecalculator) RecalculateAll(_ context.Context, force bool) error {
	s.batchCalls++
	s.lastForce = force
	return s.batchErr
}

func newTestServer(profiles domain.ProfileRepository, recalc Recalculator) http.Handler {
	return NewServer(":0", profiles, recalc, testToken, zerolog.Nop()).Router()
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth_NoAuthRequired(t *testing.T) {
	handler := newTestServer(newMemProfileRepo(), &stubRecalculator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestAPIRoutesRequireToken(t *testing.T) {
	handler := newTestServer(newMemProfileRepo(), &stubRecalculator{})

	req := httptest.NewRequest(http.MethodGet, "/api/crypto/symbols", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCryptoSymbols(t *testing.T) {
	handler := newTestServer(newMemProfileRepo(), &stubRecalculator{})

	rec := doRequest(t, handler, http.MethodGet, "/api/crypto/symbols")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbols []string `json:"symbols"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Symbols, "bitcoin")
	assert.Contains(t, body.Symbols, "eth")
}

func TestRecalculateProfile(t *testing.T) {
	profileID := uuid.New()
	recalc := &stubRecalculator{snapshots: map[uuid.UUID]*domain.WealthSnapshot{
		profileID: {
			TotalAssets:  decimal.RequireFromString("52500.50"),
			NetWorth:     decimal.RequireFromString("48300.14"),
			CalculatedAt: time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC),
		},
	}}
	handler := newTestServer(newMemProfileRepo(), recalc)

	rec := doRequest(t, handler, http.MethodPost, "/api/profiles/"+profileID.String()+"/recalculate")
	require.Equal(t, http.StatusOK, rec.Code)

	var body snapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, profileID, body.ProfileID)
	assert.True(t, body.NetWorth.Equal(decimal.RequireFromString("48300.14")))
	assert.False(t, recalc.lastForce)
}

func TestRecalculateProfile_Force(t *testing.T) {
	profileID := uuid.New()
	recalc := &stubRecalculator{snapshots: map[uuid.UUID]*domain.WealthSnapshot{
		profileID: {},
	}}
	handler := newTestServer(newMemProfileRepo(), recalc)

	rec := doRequest(t, handler, http.MethodPost, "/api/profiles/"+profileID.String()+"/recalculate?force=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, recalc.lastForce)
}

func TestRecalculateProfile_NotFound(t *testing.T) {
	handler := newTestServer(newMemProfileRepo(), &stubRecalculator{})

	rec := doRequest(t, handler, http.MethodPost, "/api/profiles/"+uuid.NewString()+"/recalculate")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecalculateProfile_InvalidID(t *testing.T) {
	handler := newTestServer(newMemProfileRepo(), &stubRecalculator{})

	rec := doRequest(t, handler, http.MethodPost, "/api/profiles/not-a-uuid/recalculate")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecalculateAll(t *testing.T) {
	recalc := &stubRecalculator{}
	handler := newTestServer(newMemProfileRepo(), recalc)

	rec := doRequest(t, handler, http.MethodPost, "/api/recalculate?force=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, recalc.batchCalls)
	assert.True(t, recalc.lastForce)
}

func TestRecalculateAll_Failure(t *testing.T) {
	recalc := &stubRecalculator{batchErr: errors.New("database is down")}
	handler := newTestServer(newMemProfileRepo(), recalc)

	rec := doRequest(t, handler, http.MethodPost, "/api/recalculate")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSnapshot(t *testing.T) {
	profile := &domain.InvestorProfile{
		ID: uuid.New(),
		Snapshot: domain.WealthSnapshot{
			Liquidities: decimal.RequireFromString("14500.50"),
			TotalAssets: decimal.RequireFromString("14500.50"),
			NetWorth:    decimal.RequireFromString("14500.50"),
		},
	}
	handler := newTestServer(newMemProfileRepo(profile), &stubRecalculator{})

	rec := doRequest(t, handler, http.MethodGet, "/api/profiles/"+profile.ID.String()+"/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)

	var body snapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, profile.ID, body.ProfileID)
	assert.True(t, body.Liquidities.Equal(decimal.RequireFromString("14500.50")))
}

func TestSnapshot_NotFound(t *testing.T) {
	handler := newTestServer(newMemProfileRepo(), &stubRecalculator{})

	rec := doRequest(t, handler, http.MethodGet, "/api/profiles/"+uuid.NewString()+"/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
