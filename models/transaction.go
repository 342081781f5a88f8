package models

import "time"

// TransactionStatusApproved is the only status the simulated processor emits
const TransactionStatusApproved = "APPROVED"

// Transaction holds the structure for the transaction ledger collection in
// mongo. Documents are appended exactly once per completed rental and never
// updated or deleted; that append-only property is what makes the revenue
// reports reproducible.
type Transaction struct {
	ID                string    `json:"transaction_id" bson:"transaction_id"`
	AuthorizationCode string    `json:"authorization_code" bson:"authorization_code"`
	RentalID          string    `json:"rental_id" bson:"rental_id"`
	UserID            string    `json:"user_id" bson:"user_id"`
	ScooterID         string    `json:"scooter_id" bson:"scooter_id"`
	Amount            float64   `json:"amount" bson:"amount"`
	UnlockFee         float64   `json:"unlock_fee" bson:"unlock_fee"`
	RentalFee         float64   `json:"rental_fee" bson:"rental_fee"`
	PricingTier       string    `json:"pricing_tier" bson:"pricing_tier"`
	DurationMinutes   float64   `json:"duration_minutes" bson:"duration_minutes"`
	DistanceMeters    float64   `json:"distance_meters" bson:"distance_meters"`
	CardType          string    `json:"card_type" bson:"card_type"`
	CardLastFour      string    `json:"card_last_four" bson:"card_last_four"`
	Status            string    `json:"status" bson:"status"`
	IsSimulation      bool      `json:"is_simulation" bson:"is_simulation"`
	ProcessedAt       time.Time `json:"processed_at" bson:"processed_at"`
}
