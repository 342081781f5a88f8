// Package rental orchestrates the rental lifecycle: reserving a scooter,
// ending the ride, charging the fare and appending the ledger entry. All
// reservation state changes funnel through the scooter database's conditional
// writes, so two concurrent requests for the same scooter can never both win.
package rental

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/geo"
	"github.com/scooterco/scooter-rental-api/models"
	"github.com/scooterco/scooter-rental-api/pricing"
)

// Lifecycle errors, mapped to HTTP statuses by the handlers.
var (
	ErrNotFound             = errors.New("scooter not found")
	ErrAlreadyReserved      = errors.New("scooter already reserved")
	ErrNotReserved          = errors.New("scooter is not reserved")
	ErrConflictActiveRental = errors.New("user already has an active rental")
	ErrForbidden            = errors.New("rental belongs to another user")
)

// historyLimit caps the rentals returned by History
const historyLimit = 50

// Lifecycle coordinates the scooter, rental, transaction and user stores. Now
// is injectable so tests can pin the clock.
type Lifecycle struct {
	Scooters     databases.ScooterDatabase
	Rentals      databases.RentalDatabase
	Transactions databases.TransactionDatabase
	Users        databases.UserDatabase
	Policy       pricing.Policy
	Now          func() time.Time
}

// New returns a Lifecycle over the given stores using the wall clock
func New(scooters databases.ScooterDatabase, rentals databases.RentalDatabase, transactions databases.TransactionDatabase, users databases.UserDatabase, policy pricing.Policy) *Lifecycle {
	return &Lifecycle{
		Scooters:     scooters,
		Rentals:      rentals,
		Transactions: transactions,
		Users:        users,
		Policy:       policy,
		Now:          time.Now,
	}
}

// Start reserves a scooter for the user and opens a rental. The reservation
// itself is a single conditional write: if another request reserved the
// scooter first, this one sees MatchedCount zero and fails with
// ErrAlreadyReserved instead of overwriting.
func (l *Lifecycle) Start(ctx context.Context, userID, userEmail, scooterID string) (*models.Rental, error) {
	scooterID, err := geo.ValidateScooterID(scooterID)
	if err != nil {
		return nil, err
	}

	active, err := l.Rentals.CountDocuments(ctx, bson.M{"user_id": userID, "status": models.RentalStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to check active rentals: %w", err)
	}
	if active > 0 {
		return nil, ErrConflictActiveRental
	}

	scooter, err := l.Scooters.FindOne(ctx, bson.M{"id": scooterID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load scooter: %w", err)
	}

	now := l.Now().UTC()
	rentalID := uuid.NewString()

	res, err := l.Scooters.Reserve(ctx, scooterID, rentalID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve scooter: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrAlreadyReserved
	}

	rental := models.Rental{
		ID:            rentalID,
		UserID:        userID,
		UserEmail:     userEmail,
		ScooterID:     scooterID,
		StartTime:     now,
		StartLocation: models.Location{Lat: scooter.Lat, Lng: scooter.Lng},
		Status:        models.RentalStatusActive,
		CreatedAt:     now,
	}
	if err := l.Rentals.InsertOne(ctx, rental); err != nil {
		// The scooter is reserved but the rental doc failed to persist. Roll
		// the reservation back so the scooter is not stranded.
		if _, rbErr := l.Scooters.Release(ctx, scooterID, nil); rbErr != nil {
			zap.S().Errorw("failed to roll back reservation after rental insert error",
				"scooter_id", scooterID, "rental_id", rentalID, "error", rbErr)
		}
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	return &rental, nil
}

// End closes the user's rental of the given scooter: prices the elapsed time,
// charges the simulated processor, appends the ledger entry and releases the
// scooter at the drop-off location. Admins may end any rental; renters only
// their own.
func (l *Lifecycle) End(ctx context.Context, userID, role, scooterID string, endLat, endLng float64) (*models.Receipt, error) {
	scooterID, err := geo.ValidateScooterID(scooterID)
	if err != nil {
		return nil, err
	}
	lat, lng, err := geo.ValidateCoordinates(endLat, endLng, geo.Options{CheckRegionBounds: true})
	if err != nil {
		return nil, err
	}

	rental, err := l.Rentals.FindOne(ctx, bson.M{"scooter_id": scooterID, "status": models.RentalStatusActive})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotReserved
		}
		return nil, fmt.Errorf("failed to load rental: %w", err)
	}
	if rental.UserID != userID && role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	now := l.Now().UTC()
	durationMinutes := math.Max(0, now.Sub(rental.StartTime).Minutes())

	cost, err := pricing.Calculate(durationMinutes, l.Policy)
	if err != nil {
		return nil, err
	}

	distance := geo.Haversine(rental.StartLocation.Lat, rental.StartLocation.Lng, lat, lng)
	endLocation := models.Location{Lat: lat, Lng: lng}

	charge := l.charge(ctx, rental.UserID)
	txn := models.Transaction{
		ID:                newTransactionID(now),
		AuthorizationCode: newAuthorizationCode(),
		RentalID:          rental.ID,
		UserID:            rental.UserID,
		ScooterID:         scooterID,
		Amount:            cost.TotalCost,
		UnlockFee:         cost.UnlockFee,
		RentalFee:         cost.RentalFee,
		PricingTier:       cost.PricingTier,
		DurationMinutes:   cost.DurationMinutes,
		DistanceMeters:    distance,
		CardType:          charge.cardType,
		CardLastFour:      charge.lastFour,
		Status:            models.TransactionStatusApproved,
		IsSimulation:      true,
		ProcessedAt:       now,
	}
	// Grace-period rides append a zero-amount entry too, so every completed
	// rental has exactly one ledger record.
	if err := l.Transactions.Append(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	_, err = l.Rentals.UpdateOne(ctx,
		bson.M{"id": rental.ID, "status": models.RentalStatusActive},
		bson.M{"$set": bson.M{
			"end_time":            now,
			"end_location":        endLocation,
			"status":              models.RentalStatusCompleted,
			"distance_traveled_m": distance,
			"cost":                cost,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete rental: %w", err)
	}

	res, err := l.Scooters.Release(ctx, scooterID, &endLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to release scooter: %w", err)
	}
	if res.MatchedCount == 0 {
		zap.S().Warnw("scooter was not reserved at release time",
			"scooter_id", scooterID, "rental_id", rental.ID)
	}

	return &models.Receipt{
		RentalID:      rental.ID,
		ScooterID:     scooterID,
		TransactionID: txn.ID,
		Duration: models.ReceiptDuration{
			Minutes: cost.DurationMinutes,
			Hours:   cost.DurationHours,
			Days:    cost.DurationDays,
		},
		DistanceTraveledM: math.Round(distance*10) / 10,
		Cost: models.ReceiptCost{
			UnlockFee:   cost.UnlockFee,
			RentalFee:   cost.RentalFee,
			Total:       cost.TotalCost,
			PricingTier: cost.PricingTier,
			Description: cost.Description,
		},
		Payment: models.ReceiptPayment{
			Card:         charge.display,
			Status:       models.TransactionStatusApproved,
			IsSimulation: true,
		},
	}, nil
}

// ForceRelease frees a scooter without charging anyone. The rental, if one is
// open, is closed as force_released with no cost and no ledger entry.
func (l *Lifecycle) ForceRelease(ctx context.Context, scooterID string) error {
	scooterID, err := geo.ValidateScooterID(scooterID)
	if err != nil {
		return err
	}

	now := l.Now().UTC()
	_, err = l.Rentals.UpdateOne(ctx,
		bson.M{"scooter_id": scooterID, "status": models.RentalStatusActive},
		bson.M{"$set": bson.M{
			"end_time": now,
			"status":   models.RentalStatusForceReleased,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to close rental: %w", err)
	}

	res, err := l.Scooters.Release(ctx, scooterID, nil)
	if err != nil {
		return fmt.Errorf("failed to release scooter: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotReserved
	}
	return nil
}

// Active returns the user's open rental, if any, with a running cost estimate
func (l *Lifecycle) Active(ctx context.Context, userID string) (*models.ActiveRentalResponse, error) {
	rental, err := l.Rentals.FindOne(ctx, bson.M{"user_id": userID, "status": models.RentalStatusActive})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.ActiveRentalResponse{HasActiveRental: false}, nil
		}
		return nil, fmt.Errorf("failed to load active rental: %w", err)
	}

	elapsed := math.Max(0, l.Now().UTC().Sub(rental.StartTime).Minutes())
	estimate, err := pricing.Calculate(elapsed, l.Policy)
	if err != nil {
		return nil, err
	}

	return &models.ActiveRentalResponse{
		HasActiveRental:     true,
		Rental:              rental,
		CurrentCostEstimate: &estimate,
	}, nil
}

// History returns the user's most recent rentals, newest first, with totals
func (l *Lifecycle) History(ctx context.Context, userID string) (*models.RentalHistoryResponse, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(historyLimit)
	rentals, err := l.Rentals.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load rental history: %w", err)
	}

	summary := models.RentalHistorySummary{TotalRentals: len(rentals)}
	for _, r := range rentals {
		if r.Status == models.RentalStatusActive {
			summary.HasActiveRental = true
		}
		if r.Cost != nil {
			summary.TotalSpent += r.Cost.TotalCost
		}
	}
	summary.TotalSpent = math.Round(summary.TotalSpent*100) / 100

	if rentals == nil {
		rentals = []models.Rental{}
	}
	return &models.RentalHistoryResponse{Rentals: rentals, Summary: summary}, nil
}
