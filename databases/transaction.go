package databases

// go generate: mockery --name TransactionDatabase

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scooterco/scooter-rental-api/models"
)

const transactionName = "transactions"

// TransactionDatabase is the append-only transaction ledger. The interface
// deliberately has no update or delete: once appended, a transaction is
// immutable, which is what makes the revenue reports reproducible.
type TransactionDatabase interface {
	Append(ctx context.Context, transaction models.Transaction) error
	Query(ctx context.Context, start, end time.Time, limit int64) ([]models.Transaction, error)
	Summary(ctx context.Context, since *time.Time) (models.RevenuePeriod, error)
	TopScooters(ctx context.Context, n int64) ([]models.TopScooter, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type transactionDatabase struct {
	db DatabaseHelper
}

// NewTransactionDatabase initializes a new instance of transaction database with the provided db connection
func NewTransactionDatabase(db DatabaseHelper) TransactionDatabase {
	return &transactionDatabase{
		db: db,
	}
}

// Append inserts a transaction. Ids are generated fresh by the caller and
// never reused; storage failures are surfaced, not retried here.
func (c *transactionDatabase) Append(ctx context.Context, transaction models.Transaction) error {
	_, err := c.db.Collection(transactionName).InsertOne(ctx, transaction)
	return err
}

// Query returns transactions processed within [start, end), newest first.
// Each call re-reads current state with a fresh range.
func (c *transactionDatabase) Query(ctx context.Context, start, end time.Time, limit int64) ([]models.Transaction, error) {
	filter := bson.M{"processed_at": bson.M{"$gte": start, "$lt": end}}
	sort := bson.D{{Key: "processed_at", Value: -1}}
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	var transactions []models.Transaction
	curr, err := c.db.Collection(transactionName).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &transactions)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Summary aggregates revenue over all transactions processed at or after
// since; a nil since means all time.
func (c *transactionDatabase) Summary(ctx context.Context, since *time.Time) (models.RevenuePeriod, error) {
	match := bson.M{}
	if since != nil {
		match["processed_at"] = bson.M{"$gte": *since}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"total_revenue":     bson.M{"$sum": "$amount"},
			"total_rentals":     bson.M{"$sum": 1},
			"avg_rental":        bson.M{"$avg": "$amount"},
			"total_unlock_fees": bson.M{"$sum": "$unlock_fee"},
			"total_rental_fees": bson.M{"$sum": "$rental_fee"},
		}}},
	}

	curr, err := c.db.Collection(transactionName).Aggregate(ctx, pipeline)
	if err != nil {
		return models.RevenuePeriod{}, err
	}
	defer curr.Close(ctx)

	var rows []struct {
		TotalRevenue    float64 `bson:"total_revenue"`
		TotalRentals    int     `bson:"total_rentals"`
		AvgRental       float64 `bson:"avg_rental"`
		TotalUnlockFees float64 `bson:"total_unlock_fees"`
		TotalRentalFees float64 `bson:"total_rental_fees"`
	}
	if err := curr.All(ctx, &rows); err != nil {
		return models.RevenuePeriod{}, err
	}
	if len(rows) == 0 {
		return models.RevenuePeriod{}, nil
	}
	return models.RevenuePeriod{
		TotalRevenue:    roundCents(rows[0].TotalRevenue),
		TotalRentals:    rows[0].TotalRentals,
		AvgRental:       roundCents(rows[0].AvgRental),
		TotalUnlockFees: roundCents(rows[0].TotalUnlockFees),
		TotalRentalFees: roundCents(rows[0].TotalRentalFees),
	}, nil
}

// TopScooters returns the n scooters with the highest summed revenue, ties
// broken by scooter id ascending.
func (c *transactionDatabase) TopScooters(ctx context.Context, n int64) ([]models.TopScooter, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$scooter_id",
			"revenue": bson.M{"$sum": "$amount"},
			"rentals": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "revenue", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: n}},
	}

	curr, err := c.db.Collection(transactionName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)

	var top []models.TopScooter
	if err := curr.All(ctx, &top); err != nil {
		return nil, err
	}
	for i := range top {
		top[i].Revenue = roundCents(top[i].Revenue)
	}
	return top, nil
}

func (c *transactionDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(transactionName).CountDocuments(ctx, filter)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
