package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jepargne/patrimoine-backend/internal/domain"
	"github.com/jepargne/patrimoine-backend/internal/usecase/pricing"
)

type snapshotResponse struct {
	ProfileID     uuid.UUID       `json:"profile_id"`
	Liquidities   decimal.Decimal `json:"liquidities"`
	Investments   decimal.Decimal `json:"investments"`
	RealEstateNet decimal.Decimal `json:"real_estate_net"`
	Crypto        decimal.Decimal `json:"crypto"`
	OtherAssets   decimal.Decimal `json:"other_assets"`
	TotalAssets   decimal.Decimal `json:"total_assets"`
	Liabilities   decimal.Decimal `json:"liabilities"`
	NetWorth      decimal.Decimal `json:"net_worth"`
	CalculatedAt  time.Time       `json:"calculated_at"`
}

func newSnapshotResponse(profileID uuid.UUID, s *domain.WealthSnapshot) snapshotResponse {
	return snapshotResponse{
		ProfileID:     profileID,
		Liquidities:   s.Liquidities,
		Investments:   s.Investments,
		RealEstateNet: s.RealEstateNet,
		Crypto:        s.Crypto,
		OtherAssets:   s.OtherAssets,
		TotalAssets:   s.TotalAssets,
		Liabilities:   s.Liabilities,
		NetWorth:      s.NetWorth,
		CalculatedAt:  s.CalculatedAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCryptoSymbols(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": pricing.SupportedSymbols(),
	})
}

// handleRecalculateProfile recomputes one profile. ?force=true bypasses the
// price-cache staleness check.
func (s *Server) handleRecalculateProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	snapshot, err := s.recalc.Recalculate(r.Context(), profileID, forceParam(r))
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Recalculation failed")
		respondError(w, http.StatusInternalServerError, "recalculation failed")
		return
	}

	respondJSON(w, http.StatusOK, newSnapshotResponse(profileID, snapshot))
}

// handleRecalculateAll recomputes every profile synchronously.
func (s *Server) handleRecalculateAll(w http.ResponseWriter, r *http.Request) {
	if err := s.recalc.RecalculateAll(r.Context(), forceParam(r)); err != nil {
		s.log.Error().Err(err).Msg("Batch recalculation failed")
		respondError(w, http.StatusInternalServerError, "recalculation failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSnapshot returns the last persisted snapshot without recomputing.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := s.profiles.GetByID(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Snapshot lookup failed")
		respondError(w, http.StatusInternalServerError, "snapshot lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, newSnapshotResponse(profile.ID, &profile.Snapshot))
}

func forceParam(r *http.Request) bool {
	return r.URL.Query().Get("force") == "true"
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
