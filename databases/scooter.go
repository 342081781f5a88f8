package databases

// go generate: mockery --name ScooterDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scooterco/scooter-rental-api/models"
)

const scooterName = "scooters"

// ScooterDatabase contains the methods to use with the scooter database.
// Reserve and Release are the only paths that flip is_reserved; both are
// single conditional writes so that exactly one of N concurrent callers can
// win a given scooter.
type ScooterDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Scooter, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Scooter, error)
	InsertOne(ctx context.Context, scooter models.Scooter) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Reserve(ctx context.Context, scooterID, rentalID, userID string, startTime time.Time) (*mongo.UpdateResult, error)
	Release(ctx context.Context, scooterID string, endLocation *models.Location) (*mongo.UpdateResult, error)
}

type scooterDatabase struct {
	db DatabaseHelper
}

// NewScooterDatabase initializes a new instance of scooter database with the provided db connection
func NewScooterDatabase(db DatabaseHelper) ScooterDatabase {
	return &scooterDatabase{
		db: db,
	}
}

func (c *scooterDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Scooter, error) {
	scooter := &models.Scooter{}
	err := c.db.Collection(scooterName).FindOne(ctx, filter).Decode(scooter)
	if err != nil {
		return nil, err
	}
	return scooter, nil
}

func (c *scooterDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Scooter, error) {
	var scooters []models.Scooter
	curr, err := c.db.Collection(scooterName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &scooters)
	if err != nil {
		return nil, err
	}
	return scooters, nil
}

func (c *scooterDatabase) InsertOne(ctx context.Context, scooter models.Scooter) error {
	_, err := c.db.Collection(scooterName).InsertOne(ctx, scooter)
	return err
}

func (c *scooterDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.db.Collection(scooterName).UpdateOne(ctx, filter, update)
}

func (c *scooterDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(scooterName).DeleteOne(ctx, filter)
}

func (c *scooterDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(scooterName).CountDocuments(ctx, filter)
}

// Reserve atomically transitions a scooter from available to reserved. The
// is_reserved precondition lives in the filter, so a scooter that is already
// reserved matches nothing and the caller sees MatchedCount == 0 rather than
// a silent overwrite.
func (c *scooterDatabase) Reserve(ctx context.Context, scooterID, rentalID, userID string, startTime time.Time) (*mongo.UpdateResult, error) {
	return c.db.Collection(scooterName).UpdateOne(ctx,
		bson.M{"id": scooterID, "is_reserved": false},
		bson.M{"$set": bson.M{
			"is_reserved":       true,
			"current_rental_id": rentalID,
			"rented_by":         userID,
			"rental_start_time": startTime,
		}},
	)
}

// Release atomically transitions a scooter from reserved back to available,
// optionally relocating it to where the rental ended. A nil endLocation
// leaves the scooter where it is (admin force-release).
func (c *scooterDatabase) Release(ctx context.Context, scooterID string, endLocation *models.Location) (*mongo.UpdateResult, error) {
	set := bson.M{"is_reserved": false}
	if endLocation != nil {
		set["lat"] = endLocation.Lat
		set["lng"] = endLocation.Lng
	}
	return c.db.Collection(scooterName).UpdateOne(ctx,
		bson.M{"id": scooterID, "is_reserved": true},
		bson.M{
			"$set": set,
			"$unset": bson.M{
				"current_rental_id": "",
				"rented_by":         "",
				"rental_start_time": "",
			},
		},
	)
}
