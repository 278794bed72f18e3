package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ratesRequest "github.com/LavaJover/shvark-rates-service/internal/delivery/http/dto/rates/request"
	ratesResponse "github.com/LavaJover/shvark-rates-service/internal/delivery/http/dto/rates/response"
	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/LavaJover/shvark-rates-service/internal/usecase"
)

type RatesHandler struct {
	ratesUsecase usecase.RatesUsecase
}

func NewRatesHandler(ratesUsecase usecase.RatesUsecase) *RatesHandler {
	return &RatesHandler{ratesUsecase: ratesUsecase}
}

func (h *RatesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /rates/{id}", h.GetRate)
	mux.HandleFunc("POST /rates/{id}/external", h.SubmitExternalRate)
	mux.HandleFunc("GET /rates/{id}/fallback-info", h.GetFallbackInfo)
	mux.HandleFunc("POST /conversions/usd-to-instrument", h.UsdToInstrument)
	mux.HandleFunc("POST /conversions/instrument-to-usd", h.InstrumentToUsd)
	mux.HandleFunc("GET /cache", h.GetCacheSnapshot)
	mux.HandleFunc("DELETE /cache", h.ClearCache)
	mux.HandleFunc("PUT /rates/fallback", h.UpdateFallbackRates)
	mux.HandleFunc("PUT /rates/minimum", h.UpdateMinimumRates)
	mux.HandleFunc("PUT /safeguards", h.SetSafeguards)
	mux.HandleFunc("GET /sources", h.GetSources)
	mux.HandleFunc("GET /healthz", h.HealthCheck)
}

func (h *RatesHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	instrumentID := r.PathValue("id")
	useCache := r.URL.Query().Get("cache") != "false"

	rate, err := h.ratesUsecase.Resolve(r.Context(), instrumentID, useCache)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratesResponse.RateResponse{
		InstrumentID: instrumentID,
		Rate:         rate,
	})
}

func (h *RatesHandler) SubmitExternalRate(w http.ResponseWriter, r *http.Request) {
	instrumentID := r.PathValue("id")
	useCache := r.URL.Query().Get("cache") != "false"

	var req ratesRequest.SubmitExternalRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	rate, err := h.ratesUsecase.SubmitExternalRate(r.Context(), instrumentID, req.Rate, req.Source, useCache)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratesResponse.RateResponse{
		InstrumentID: instrumentID,
		Rate:         rate,
	})
}

func (h *RatesHandler) GetFallbackInfo(w http.ResponseWriter, r *http.Request) {
	instrumentID := r.PathValue("id")

	info, ok := h.ratesUsecase.GetFallbackInfo(instrumentID)
	if !ok {
		writeErrorStatus(w, http.StatusNotFound, fmt.Errorf("no fallback rate configured for %q", instrumentID))
		return
	}

	writeJSON(w, http.StatusOK, ratesResponse.FallbackInfoResponse{
		InstrumentID: instrumentID,
		Rate:         info.Rate,
		Match:        string(info.Match),
		SourceKey:    info.SourceKey,
	})
}

func (h *RatesHandler) UsdToInstrument(w http.ResponseWriter, r *http.Request) {
	var req ratesRequest.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	amount, err := h.ratesUsecase.UsdToInstrument(r.Context(), req.Amount, req.InstrumentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratesResponse.ConversionResponse{
		InstrumentID: req.InstrumentID,
		Amount:       amount,
		Direction:    "usd_to_instrument",
	})
}

func (h *RatesHandler) InstrumentToUsd(w http.ResponseWriter, r *http.Request) {
	var req ratesRequest.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	amount, err := h.ratesUsecase.InstrumentToUsd(r.Context(), req.Amount, req.InstrumentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratesResponse.ConversionResponse{
		InstrumentID: req.InstrumentID,
		Amount:       amount,
		Direction:    "instrument_to_usd",
	})
}

func (h *RatesHandler) GetCacheSnapshot(w http.ResponseWriter, r *http.Request) {
	entries := h.ratesUsecase.CacheSnapshot()

	responseEntries := make([]ratesResponse.CacheEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responseEntries = append(responseEntries, ratesResponse.CacheEntryResponse{
			InstrumentID: entry.InstrumentID,
			Rate:         entry.Rate,
			Source:       string(entry.Source),
			AgeMs:        entry.Age.Milliseconds(),
			Expired:      entry.Expired,
		})
	}

	writeJSON(w, http.StatusOK, ratesResponse.CacheSnapshotResponse{
		Count:   len(responseEntries),
		Entries: responseEntries,
	})
}

func (h *RatesHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.ratesUsecase.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func (h *RatesHandler) UpdateFallbackRates(w http.ResponseWriter, r *http.Request) {
	var req ratesRequest.UpdateRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Rates) == 0 {
		writeErrorStatus(w, http.StatusBadRequest, errors.New("rates must not be empty"))
		return
	}

	if err := h.ratesUsecase.UpdateFallbackRates(req.Rates); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RatesHandler) UpdateMinimumRates(w http.ResponseWriter, r *http.Request) {
	var req ratesRequest.UpdateRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Rates) == 0 {
		writeErrorStatus(w, http.StatusBadRequest, errors.New("rates must not be empty"))
		return
	}

	if err := h.ratesUsecase.UpdateMinimumRates(req.Rates); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RatesHandler) SetSafeguards(w http.ResponseWriter, r *http.Request) {
	var req ratesRequest.SetSafeguardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	h.ratesUsecase.SetSafeguardsEnabled(req.Enabled)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RatesHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ratesResponse.SourcesResponse{
		Sources: h.ratesUsecase.AvailableSources(),
	})
}

func (h *RatesHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sources := h.ratesUsecase.HealthCheck(r.Context())

	healthStatus := "ok"
	for _, healthy := range sources {
		if !healthy {
			healthStatus = "degraded"
			break
		}
	}

	writeJSON(w, http.StatusOK, ratesResponse.HealthResponse{
		Status:  healthStatus,
		Sources: sources,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInstrumentID),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRate):
		writeErrorStatus(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNoRateAvailable):
		writeErrorStatus(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrZeroRate):
		writeErrorStatus(w, http.StatusUnprocessableEntity, err)
	default:
		writeErrorStatus(w, http.StatusInternalServerError, err)
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ratesResponse.ErrorResponse{Success: false, Error: err.Error()})
}
