package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/geo"
	"github.com/scooterco/scooter-rental-api/models"
	"github.com/scooterco/scooter-rental-api/pricing"
)

// Scooter exported for testing purposes
type Scooter struct {
	DB              databases.ScooterDatabase
	MaxSearchRadius float64
	Policy          pricing.Policy
}

// AvailableScootersHandler returns all scooters that are not reserved
func (s Scooter) AvailableScootersHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := s.DB.Find(context.TODO(), bson.M{"is_reserved": false})
	if err != nil {
		config.ErrorStatus("failed to get available scooters", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Scooter{}
	}
	b, err := json.Marshal(map[string]interface{}{
		"count":    len(dbResp),
		"scooters": dbResp,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SearchScootersHandler returns the available scooters within the given radius
// of the given point, closest first
func (s Scooter) SearchScootersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, lng, err := geo.ParseCoordinates(query.Get("lat"), query.Get("lng"), geo.Options{AllowNullIsland: true})
	if err != nil {
		config.ErrorStatus("invalid search coordinates", http.StatusBadRequest, w, err)
		return
	}
	radius, err := geo.ParseRadius(query.Get("radius"), s.MaxSearchRadius)
	if err != nil {
		config.ErrorStatus("invalid search radius", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := s.DB.Find(context.TODO(), bson.M{"is_reserved": false})
	if err != nil {
		config.ErrorStatus("failed to get available scooters", http.StatusInternalServerError, w, err)
		return
	}

	results := []models.ScooterWithDistance{}
	for _, sc := range dbResp {
		distance := geo.Haversine(lat, lng, sc.Lat, sc.Lng)
		if distance <= radius {
			results = append(results, models.ScooterWithDistance{
				ID:       sc.ID,
				Lat:      sc.Lat,
				Lng:      sc.Lng,
				Distance: round1(distance),
			})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	b, err := json.Marshal(map[string]interface{}{
		"count":    len(results),
		"search":   map[string]float64{"lat": lat, "lng": lng, "radius": radius},
		"scooters": results,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PricingHandler returns the rate card, or a cost estimate when hours or days
// query parameters are present
func (s Scooter) PricingHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	hoursStr := query.Get("hours")
	daysStr := query.Get("days")

	if hoursStr == "" && daysStr == "" {
		b, err := json.Marshal(map[string]interface{}{"rates": s.Policy})
		if err != nil {
			config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(b)
		return
	}

	var hours, days float64
	var err error
	if hoursStr != "" {
		hours, err = strconv.ParseFloat(hoursStr, 64)
		if err != nil || hours < 0 {
			config.ErrorStatus("invalid hours", http.StatusBadRequest, w, err)
			return
		}
	}
	if daysStr != "" {
		days, err = strconv.ParseFloat(daysStr, 64)
		if err != nil || days < 0 {
			config.ErrorStatus("invalid days", http.StatusBadRequest, w, err)
			return
		}
	}

	estimate, err := pricing.Estimate(hours, days, s.Policy)
	if err != nil {
		config.ErrorStatus("failed to estimate cost", http.StatusBadRequest, w, err)
		return
	}
	b, err := json.Marshal(map[string]interface{}{"estimate": estimate})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
