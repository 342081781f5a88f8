package databases_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/databases/mocks"
	"github.com/scooterco/scooter-rental-api/models"
)

func TestTransactionDatabase_Append(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var iorHelper databases.InsertOneResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	iorHelper = &mocks.InsertOneResultHelper{}

	txn := models.Transaction{
		ID:     "TXN-20260115093042-1A2B3C4D",
		Amount: 5.38,
		Status: models.TransactionStatusApproved,
	}

	collectionHelper.(*mocks.CollectionHelper).
		On("InsertOne", context.Background(), txn).
		Return(iorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "transactions").Return(collectionHelper)

	ledger := databases.NewTransactionDatabase(dbHelper)

	err := ledger.Append(context.Background(), txn)

	assert.NoError(t, err)
	collectionHelper.(*mocks.CollectionHelper).AssertExpectations(t)
}

func TestTransactionDatabase_Summary(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelper = &mocks.CursorHelper{}

	cursorHelper.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		// the aggregation row is an anonymous struct, fill it via reflection
		rows := reflect.ValueOf(args.Get(1)).Elem()
		row := reflect.New(rows.Type().Elem()).Elem()
		row.Field(0).SetFloat(107.60) // total_revenue
		row.Field(1).SetInt(20)       // total_rentals
		row.Field(2).SetFloat(5.38)   // avg_rental
		row.Field(3).SetFloat(20.00)  // total_unlock_fees
		row.Field(4).SetFloat(87.60)  // total_rental_fees
		rows.Set(reflect.Append(rows, row))
	})
	cursorHelper.(*mocks.CursorHelper).
		On("Close", context.Background()).
		Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Aggregate", context.Background(), mock.Anything).
		Return(cursorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "transactions").Return(collectionHelper)

	ledger := databases.NewTransactionDatabase(dbHelper)

	summary, err := ledger.Summary(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, models.RevenuePeriod{
		TotalRevenue:    107.60,
		TotalRentals:    20,
		AvgRental:       5.38,
		TotalUnlockFees: 20.00,
		TotalRentalFees: 87.60,
	}, summary)
}

func TestTransactionDatabase_SummaryEmpty(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelper = &mocks.CursorHelper{}

	cursorHelper.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil)
	cursorHelper.(*mocks.CursorHelper).
		On("Close", context.Background()).
		Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Aggregate", context.Background(), mock.Anything).
		Return(cursorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "transactions").Return(collectionHelper)

	ledger := databases.NewTransactionDatabase(dbHelper)

	// No transactions yet aggregates to an all-zero period, not an error
	summary, err := ledger.Summary(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, models.RevenuePeriod{}, summary)
}

func TestTransactionDatabase_TopScooters(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelper = &mocks.CursorHelper{}

	cursorHelper.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.TopScooter)
		*arg = []models.TopScooter{
			{ScooterID: "SCOOT-002", Revenue: 54.00, Rentals: 9},
			{ScooterID: "SCOOT-001", Revenue: 32.50, Rentals: 5},
		}
	})
	cursorHelper.(*mocks.CursorHelper).
		On("Close", context.Background()).
		Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Aggregate", context.Background(), mock.Anything).
		Return(cursorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "transactions").Return(collectionHelper)

	ledger := databases.NewTransactionDatabase(dbHelper)

	top, err := ledger.TopScooters(context.Background(), 5)

	assert.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, "SCOOT-002", top[0].ScooterID)
}

func TestTransactionDatabase_QueryError(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), mock.Anything, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "transactions").Return(collectionHelper)

	ledger := databases.NewTransactionDatabase(dbHelper)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	_, err := ledger.Query(context.Background(), start, end, 100)

	assert.EqualError(t, err, "mocked-error")
}
