package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scooterco/scooter-rental-api/api"
	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/geo"
	"github.com/scooterco/scooter-rental-api/rental"
)

// Rental exported for testing purposes
type Rental struct {
	Lifecycle *rental.Lifecycle
}

type startRentalRequest struct {
	ScooterID string `json:"scooter_id"`
}

type endRentalRequest struct {
	ScooterID string  `json:"scooter_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// StartRentalHandler reserves a scooter for the authenticated user
func (h Rental) StartRentalHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	var req startRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	started, err := h.Lifecycle.Start(ctx, identity.UserID, identity.Email, req.ScooterID)
	if err != nil {
		config.ErrorStatus("failed to start rental", rentalErrorStatus(err), w, err)
		return
	}

	b, err := json.Marshal(map[string]interface{}{
		"rental_id":  started.ID,
		"scooter_id": started.ScooterID,
		"start_time": started.StartTime,
		"rates":      h.Lifecycle.Policy,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// EndRentalHandler ends the rental, charges the fare and returns the receipt
func (h Rental) EndRentalHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	var req endRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	receipt, err := h.Lifecycle.End(ctx, identity.UserID, identity.Role, req.ScooterID, req.Lat, req.Lng)
	if err != nil {
		config.ErrorStatus("failed to end rental", rentalErrorStatus(err), w, err)
		return
	}

	b, err := json.Marshal(receipt)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ActiveRentalHandler returns the authenticated user's open rental, if any
func (h Rental) ActiveRentalHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	active, err := h.Lifecycle.Active(ctx, identity.UserID)
	if err != nil {
		config.ErrorStatus("failed to get active rental", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(active)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RentalHistoryHandler returns the authenticated user's recent rentals
func (h Rental) RentalHistoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFrom(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity on request"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	history, err := h.Lifecycle.History(ctx, identity.UserID)
	if err != nil {
		config.ErrorStatus("failed to get rental history", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(history)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// rentalErrorStatus maps lifecycle errors onto HTTP statuses
func rentalErrorStatus(err error) int {
	switch {
	case errors.Is(err, rental.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rental.ErrAlreadyReserved), errors.Is(err, rental.ErrConflictActiveRental):
		return http.StatusConflict
	case errors.Is(err, rental.ErrNotReserved):
		return http.StatusBadRequest
	case errors.Is(err, rental.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, geo.ErrInvalidCoordinate), errors.Is(err, geo.ErrInvalidScooterID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
