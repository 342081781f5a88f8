package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/databases/mocks"
	"github.com/scooterco/scooter-rental-api/models"
)

func TestRentalDatabase_FindOne(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Rental)
		arg.ID = "rental-1"
		arg.Status = models.RentalStatusActive
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "rentals").Return(collectionHelper)

	rentalDba := databases.NewRentalDatabase(dbHelper)

	rental, err := rentalDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, rental)
	assert.EqualError(t, err, "mocked-error")

	rental, err = rentalDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, "rental-1", rental.ID)
	assert.Equal(t, models.RentalStatusActive, rental.Status)
	assert.NoError(t, err)
}

func TestRentalDatabase_FindWithOptions(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelper = &mocks.CursorHelper{}

	cursorHelper.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Rental)
		*arg = []models.Rental{{ID: "rental-2"}, {ID: "rental-1"}}
	})
	cursorHelper.(*mocks.CursorHelper).
		On("Close", context.Background()).
		Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"user_id": "user-1"}, mock.Anything).
		Return(cursorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "rentals").Return(collectionHelper)

	rentalDba := databases.NewRentalDatabase(dbHelper)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(50)
	rentals, err := rentalDba.Find(context.Background(), bson.M{"user_id": "user-1"}, opts)

	assert.NoError(t, err)
	assert.Equal(t, []models.Rental{{ID: "rental-2"}, {ID: "rental-1"}}, rentals)
}

func TestRentalDatabase_UpdateOne(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("UpdateOne", context.Background(),
			bson.M{"id": "rental-1", "status": models.RentalStatusActive},
			mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "rentals").Return(collectionHelper)

	rentalDba := databases.NewRentalDatabase(dbHelper)

	res, err := rentalDba.UpdateOne(context.Background(),
		bson.M{"id": "rental-1", "status": models.RentalStatusActive},
		bson.M{"$set": bson.M{"status": models.RentalStatusCompleted}},
	)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
}

func TestRentalDatabase_CountDocuments(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("CountDocuments", context.Background(), bson.M{"status": models.RentalStatusActive}).
		Return(int64(3), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "rentals").Return(collectionHelper)

	rentalDba := databases.NewRentalDatabase(dbHelper)

	count, err := rentalDba.CountDocuments(context.Background(), bson.M{"status": models.RentalStatusActive})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
