package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/scooterco/scooter-rental-api/databases"
	"github.com/scooterco/scooter-rental-api/models"
	"github.com/scooterco/scooter-rental-api/rental"
)

// Scheduler handles periodic background jobs for the fleet
type Scheduler struct {
	cron      *cron.Cron
	RDB       databases.RentalDatabase
	Lifecycle *rental.Lifecycle
}

// NewScheduler creates a new scheduler instance
func NewScheduler(rDB databases.RentalDatabase, lifecycle *rental.Lifecycle) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		RDB:       rDB,
		Lifecycle: lifecycle,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep rentals that exceeded the maximum duration every hour on the hour
	_, err := s.cron.AddFunc("0 * * * *", s.sweepOverdueRentals)
	if err != nil {
		zap.S().Errorw("failed to register overdue rental job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Fleet scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Fleet scheduler stopped")
}

// sweepOverdueRentals force-releases scooters whose rentals have run past the
// maximum duration. The renter is not charged here; support settles overdue
// rides manually.
func (s *Scheduler) sweepOverdueRentals() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-time.Duration(s.Lifecycle.Policy.MaxDurationDays) * 24 * time.Hour)

	overdue, err := s.RDB.Find(ctx, bson.M{
		"status":     models.RentalStatusActive,
		"start_time": bson.M{"$lt": cutoff},
	})
	if err != nil {
		zap.S().Errorw("failed to find overdue rentals", "error", err)
		return
	}

	released := 0
	for _, r := range overdue {
		if err := s.Lifecycle.ForceRelease(ctx, r.ScooterID); err != nil {
			zap.S().Errorw("failed to force release overdue rental",
				"rental_id", r.ID, "scooter_id", r.ScooterID, "error", err)
			continue
		}
		released++
	}

	if len(overdue) > 0 {
		zap.S().Infow("Overdue rental sweep complete",
			"overdueFound", len(overdue),
			"released", released,
		)
	}
}
