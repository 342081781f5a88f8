package models

import "time"

// Scooter holds the structure for the scooter collection in mongo. The
// is_reserved flag is only ever flipped through the conditional updates in
// databases.ScooterDatabase, never through a plain write.
type Scooter struct {
	ID              string     `json:"id" bson:"id"`
	Lat             float64    `json:"lat" bson:"lat"`
	Lng             float64    `json:"lng" bson:"lng"`
	IsReserved      bool       `json:"is_reserved" bson:"is_reserved"`
	CurrentRentalID string     `json:"current_rental_id,omitempty" bson:"current_rental_id,omitempty"`
	RentedBy        string     `json:"rented_by,omitempty" bson:"rented_by,omitempty"`
	RentalStartTime *time.Time `json:"rental_start_time,omitempty" bson:"rental_start_time,omitempty"`
}

// ScooterWithDistance is a search result row: a scooter and its haversine
// distance in meters from the search center
type ScooterWithDistance struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance float64 `json:"distance"`
}

// FleetStats holds the fleet counts shown on the admin scooter list
type FleetStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
}

// FleetResponse is the admin fleet listing payload
type FleetResponse struct {
	Stats    FleetStats `json:"stats"`
	Scooters []Scooter  `json:"scooters"`
}
