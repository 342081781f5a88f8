package databases

// go generate: mockery --name RentalDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scooterco/scooter-rental-api/models"
)

const rentalName = "rentals"

// RentalDatabase contains the methods to use with the rental database.
// Rentals are created active, completed exactly once and never deleted.
type RentalDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Rental, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Rental, error)
	InsertOne(ctx context.Context, rental models.Rental) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type rentalDatabase struct {
	db DatabaseHelper
}

// NewRentalDatabase initializes a new instance of rental database with the provided db connection
func NewRentalDatabase(db DatabaseHelper) RentalDatabase {
	return &rentalDatabase{
		db: db,
	}
}

func (c *rentalDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Rental, error) {
	rental := &models.Rental{}
	err := c.db.Collection(rentalName).FindOne(ctx, filter).Decode(rental)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (c *rentalDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Rental, error) {
	var rentals []models.Rental
	curr, err := c.db.Collection(rentalName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &rentals)
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (c *rentalDatabase) InsertOne(ctx context.Context, rental models.Rental) error {
	_, err := c.db.Collection(rentalName).InsertOne(ctx, rental)
	return err
}

func (c *rentalDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.db.Collection(rentalName).UpdateOne(ctx, filter, update)
}

func (c *rentalDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(rentalName).CountDocuments(ctx, filter)
}
