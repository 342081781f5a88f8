package models

import "time"

// RevenuePeriod is the aggregate for one reporting window
type RevenuePeriod struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalRentals    int     `json:"total_rentals"`
	AvgRental       float64 `json:"avg_rental"`
	TotalUnlockFees float64 `json:"total_unlock_fees"`
	TotalRentalFees float64 `json:"total_rental_fees"`
}

// TopScooter is one row of the top-revenue scooter report
type TopScooter struct {
	ScooterID string  `json:"scooter_id" bson:"_id"`
	Revenue   float64 `json:"revenue" bson:"revenue"`
	Rentals   int     `json:"rentals" bson:"rentals"`
}

// RevenueSummary is the admin revenue report payload
type RevenueSummary struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	Today         RevenuePeriod `json:"today"`
	ThisWeek      RevenuePeriod `json:"this_week"`
	ThisMonth     RevenuePeriod `json:"this_month"`
	AllTime       RevenuePeriod `json:"all_time"`
	ActiveRentals int64         `json:"active_rentals"`
	TopScooters   []TopScooter  `json:"top_scooters"`
}

// TransactionLogResponse is the admin transaction log payload
type TransactionLogResponse struct {
	Transactions []Transaction         `json:"transactions"`
	Summary      TransactionLogSummary `json:"summary"`
}

// TransactionLogSummary totals the returned page of the log
type TransactionLogSummary struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
	PeriodDays  int     `json:"period_days"`
}
