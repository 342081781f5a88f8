package models

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RoleRenter = "renter"
)

// User holds the structure for the user collection in mongo
type User struct {
	ID            string         `json:"id" bson:"id"`
	Email         string         `json:"email" bson:"email"`
	Name          string         `json:"name" bson:"name"`
	PasswordHash  string         `json:"-" bson:"password_hash"`
	Role          string         `json:"role" bson:"role"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}

// PaymentMethod is the card on file for a user. Only the masked form is ever
// stored or returned.
type PaymentMethod struct {
	CardType         string `json:"card_type" bson:"card_type"`
	CardLastFour     string `json:"card_last_four" bson:"card_last_four"`
	CardNumberMasked string `json:"card_number_masked" bson:"card_number_masked"`
	CardholderName   string `json:"cardholder_name" bson:"cardholder_name"`
}
