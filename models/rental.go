package models

import "time"

// Rental statuses. A rental is created active and transitions to completed (or
// force_released by an admin) exactly once; it is never deleted.
const (
	RentalStatusActive        = "active"
	RentalStatusCompleted     = "completed"
	RentalStatusForceReleased = "force_released"
)

// Location is a latitude/longitude pair
type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Rental holds the structure for the rental collection in mongo
type Rental struct {
	ID                string         `json:"id" bson:"id"`
	UserID            string         `json:"user_id" bson:"user_id"`
	UserEmail         string         `json:"user_email,omitempty" bson:"user_email,omitempty"`
	ScooterID         string         `json:"scooter_id" bson:"scooter_id"`
	StartTime         time.Time      `json:"start_time" bson:"start_time"`
	StartLocation     Location       `json:"start_location" bson:"start_location"`
	EndTime           *time.Time     `json:"end_time" bson:"end_time"`
	EndLocation       *Location      `json:"end_location" bson:"end_location"`
	Status            string         `json:"status" bson:"status"`
	DistanceTraveledM float64        `json:"distance_traveled_m,omitempty" bson:"distance_traveled_m,omitempty"`
	Cost              *CostBreakdown `json:"cost" bson:"cost"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
}

// CostBreakdown is the denormalized fare breakdown stored on a completed
// rental for history display. Reporting reads the transaction ledger, not this.
type CostBreakdown struct {
	DurationMinutes float64 `json:"duration_minutes" bson:"duration_minutes"`
	DurationHours   float64 `json:"duration_hours" bson:"duration_hours"`
	DurationDays    float64 `json:"duration_days" bson:"duration_days"`
	PricingTier     string  `json:"pricing_tier" bson:"pricing_tier"`
	UnlockFee       float64 `json:"unlock_fee" bson:"unlock_fee"`
	RentalFee       float64 `json:"rental_fee" bson:"rental_fee"`
	TotalCost       float64 `json:"total_cost" bson:"total_cost"`
	Description     string  `json:"description" bson:"description"`
}

// Receipt is returned to the renter when a rental is ended
type Receipt struct {
	RentalID          string          `json:"rental_id"`
	ScooterID         string          `json:"scooter_id"`
	TransactionID     string          `json:"transaction_id"`
	Duration          ReceiptDuration `json:"duration"`
	DistanceTraveledM float64         `json:"distance_traveled_m"`
	Cost              ReceiptCost     `json:"cost"`
	Payment           ReceiptPayment  `json:"payment"`
}

// ReceiptDuration breaks the elapsed time out for display
type ReceiptDuration struct {
	Minutes float64 `json:"minutes"`
	Hours   float64 `json:"hours"`
	Days    float64 `json:"days"`
}

// ReceiptCost is the charge section of a receipt
type ReceiptCost struct {
	UnlockFee   float64 `json:"unlock_fee"`
	RentalFee   float64 `json:"rental_fee"`
	Total       float64 `json:"total"`
	PricingTier string  `json:"pricing_tier"`
	Description string  `json:"description"`
}

// ReceiptPayment describes the (simulated) charge on a receipt
type ReceiptPayment struct {
	Card         string `json:"card"`
	Status       string `json:"status"`
	IsSimulation bool   `json:"is_simulation"`
}

// ActiveRentalResponse is the payload for the current user's active rental
type ActiveRentalResponse struct {
	HasActiveRental     bool           `json:"has_active_rental"`
	Rental              *Rental        `json:"rental"`
	CurrentCostEstimate *CostBreakdown `json:"current_cost_estimate,omitempty"`
}

// RentalHistoryResponse is the payload for a user's rental history
type RentalHistoryResponse struct {
	Rentals []Rental             `json:"rentals"`
	Summary RentalHistorySummary `json:"summary"`
}

// RentalHistorySummary totals a user's completed rentals
type RentalHistorySummary struct {
	TotalRentals    int     `json:"total_rentals"`
	TotalSpent      float64 `json:"total_spent"`
	HasActiveRental bool    `json:"has_active_rental"`
}
