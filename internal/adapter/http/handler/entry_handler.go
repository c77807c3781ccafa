package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/parklot/internal/adapter/http/dto"
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

// ParkingService defines the behavior needed by EntryHandler.
type ParkingService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	LookupOpen(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error)
	ProcessExit(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error)
}

// EntryHandler handles vehicle entry and exit requests.
type EntryHandler struct {
	parkingUC ParkingService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(parkingUC ParkingService) *EntryHandler {
	return &EntryHandler{parkingUC: parkingUC}
}

// CreateTwoWheeler records a two-wheeler entry.
func (h *EntryHandler) CreateTwoWheeler(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.TwoWheeler)
}

// CreateFourWheeler records a four-wheeler entry.
func (h *EntryHandler) CreateFourWheeler(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.FourWheeler)
}

func (h *EntryHandler) create(w http.ResponseWriter, r *http.Request, class domain.VehicleClass) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.parkingUC.CreateEntry(r.Context(), req.ToUseCaseInput(class))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// LookupTwoWheelerExit shows the open two-wheeler entry behind a token.
func (h *EntryHandler) LookupTwoWheelerExit(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, domain.TwoWheeler)
}

// LookupFourWheelerExit shows the open four-wheeler entry behind a token.
func (h *EntryHandler) LookupFourWheelerExit(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, domain.FourWheeler)
}

func (h *EntryHandler) lookup(w http.ResponseWriter, r *http.Request, class domain.VehicleClass) {
	tokenID := chi.URLParam(r, "token_id")
	if tokenID == "" {
		writeError(w, http.StatusBadRequest, "missing token ID", "")
		return
	}

	entry, err := h.parkingUC.LookupOpen(r.Context(), class, tokenID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to look up entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// ProcessTwoWheelerExit settles an open two-wheeler entry.
func (h *EntryHandler) ProcessTwoWheelerExit(w http.ResponseWriter, r *http.Request) {
	h.exit(w, r, domain.TwoWheeler)
}

// ProcessFourWheelerExit settles an open four-wheeler entry.
func (h *EntryHandler) ProcessFourWheelerExit(w http.ResponseWriter, r *http.Request) {
	h.exit(w, r, domain.FourWheeler)
}

func (h *EntryHandler) exit(w http.ResponseWriter, r *http.Request, class domain.VehicleClass) {
	tokenID := chi.URLParam(r, "token_id")
	if tokenID == "" {
		writeError(w, http.StatusBadRequest, "missing token ID", "")
		return
	}

	entry, err := h.parkingUC.ProcessExit(r.Context(), class, tokenID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to process exit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
