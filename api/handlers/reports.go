package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scooterco/scooter-rental-api/api"
	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/models"
)

// Report defaults
const (
	defaultLogDays     = 7
	maxLogDays         = 365
	defaultLogLimit    = 100
	maxLogLimit        = 1000
	topScooterCount    = 5
	defaultRentalLimit = 100
)

// Report exported for testing purposes
type Report struct {
	TDB databases.TransactionDatabase
	RDB databases.RentalDatabase
}

// RevenueSummaryHandler aggregates the ledger into today / week / month /
// all-time windows plus the top-earning scooters
func (h Report) RevenueSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := now.Add(-30 * 24 * time.Hour)

	summary := models.RevenueSummary{GeneratedAt: now}

	periods := []struct {
		since *time.Time
		dest  *models.RevenuePeriod
	}{
		{&dayStart, &summary.Today},
		{&weekStart, &summary.ThisWeek},
		{&monthStart, &summary.ThisMonth},
		{nil, &summary.AllTime},
	}
	for _, p := range periods {
		period, err := h.TDB.Summary(ctx, p.since)
		if err != nil {
			config.ErrorStatus("failed to aggregate revenue", http.StatusInternalServerError, w, err)
			return
		}
		*p.dest = period
	}

	active, err := h.RDB.CountDocuments(ctx, bson.M{"status": models.RentalStatusActive})
	if err != nil {
		config.ErrorStatus("failed to count active rentals", http.StatusInternalServerError, w, err)
		return
	}
	summary.ActiveRentals = active

	top, err := h.TDB.TopScooters(ctx, topScooterCount)
	if err != nil {
		config.ErrorStatus("failed to rank scooters", http.StatusInternalServerError, w, err)
		return
	}
	if top == nil {
		top = []models.TopScooter{}
	}
	summary.TopScooters = top

	b, err := json.Marshal(summary)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TransactionLogHandler returns the ledger entries for the requested window,
// newest first
func (h Report) TransactionLogHandler(w http.ResponseWriter, r *http.Request) {
	days := intQueryParam(r, "days", defaultLogDays, maxLogDays)
	limit := intQueryParam(r, "limit", defaultLogLimit, maxLogLimit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := time.Now().UTC()
	start := now.Add(-time.Duration(days) * 24 * time.Hour)

	transactions, err := h.TDB.Query(ctx, start, now, int64(limit))
	if err != nil {
		config.ErrorStatus("failed to get transactions", http.StatusInternalServerError, w, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	var total float64
	for _, t := range transactions {
		total += t.Amount
	}

	b, err := json.Marshal(models.TransactionLogResponse{
		Transactions: transactions,
		Summary: models.TransactionLogSummary{
			Count:       len(transactions),
			TotalAmount: math.Round(total*100) / 100,
			PeriodDays:  days,
		},
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RentalsReportHandler returns recent rentals across all users, optionally
// filtered by status
func (h Report) RentalsReportHandler(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit", defaultRentalLimit, maxLogLimit)
	status := r.URL.Query().Get("status")

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	limit64 := int64(limit)
	rentals, err := h.RDB.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  primitive.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		config.ErrorStatus("failed to get rentals", http.StatusInternalServerError, w, err)
		return
	}
	if rentals == nil {
		rentals = []models.Rental{}
	}

	b, err := json.Marshal(map[string]interface{}{
		"count":   len(rentals),
		"rentals": rentals,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UsageReportHandler returns the in-process request metrics per route
func (h Report) UsageReportHandler(w http.ResponseWriter, r *http.Request) {
	mc := api.Metrics()

	b, err := json.Marshal(map[string]interface{}{
		"summary": mc.Summary(),
		"routes":  mc.Routes(),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// intQueryParam reads a bounded positive integer query parameter
func intQueryParam(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
