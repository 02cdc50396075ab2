package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

const (
	renotifyJobName  = "renotify_unanswered_emergencies"
	renotifyAfter    = 10 * time.Minute
	renotifyLockTTL  = 10 * time.Minute
	renotifyDeadline = 5 * time.Minute
)

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	EmDB       databases.EmergencyDatabase
	LockDB     databases.SchedulerLockDatabase
	Dispatcher *dispatch.Dispatcher
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(emDB databases.EmergencyDatabase, lockDB databases.SchedulerLockDatabase, dispatcher *dispatch.Dispatcher) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		EmDB:       emDB,
		LockDB:     lockDB,
		Dispatcher: dispatcher,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Re-notify emergencies nobody answered, every 5 minutes
	_, err := s.cron.AddFunc("*/5 * * * *", s.renotifyUnanswered)
	if err != nil {
		zap.S().Errorw("failed to register re-notify job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Emergency re-notify scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Emergency re-notify scheduler stopped")
}

// renotifyUnanswered finds emergencies that are still NEW well past their
// creation and runs one more fan-out for each. Each emergency is re-notified
// at most once; the renotifiedAt stamp keeps the job from firing again.
// Duplicate pushes to professionals who already saw the first dispatch are
// accepted.
func (s *Scheduler) renotifyUnanswered() {
	ctx, cancel := context.WithTimeout(context.Background(), renotifyDeadline)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, renotifyJobName, s.instanceID, renotifyLockTTL)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for re-notify job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Re-notify job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, renotifyJobName, s.instanceID)

	cutoff := time.Now().Add(-renotifyAfter)
	filter := bson.M{
		"emergency.status":       models.EmergencyStatusNew,
		"emergency.renotifiedAt": nil,
		"emergency.createdAt":    bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)},
	}

	emergencies, err := s.EmDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find unanswered emergencies", "error", err)
		return
	}

	renotified := 0
	for _, emergency := range emergencies {
		receipt, err := s.Dispatcher.Dispatch(ctx, emergency)
		if err != nil {
			zap.S().Errorw("failed to re-dispatch emergency",
				"emergencyId", emergency.ID,
				"error", err,
			)
			continue
		}

		id, err := primitive.ObjectIDFromHex(emergency.ID)
		if err != nil {
			zap.S().Errorw("malformed emergency id", "emergencyId", emergency.ID, "error", err)
			continue
		}
		_, err = s.EmDB.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{"emergency.renotifiedAt": primitive.NewDateTimeFromTime(time.Now())},
		})
		if err != nil {
			zap.S().Errorw("failed to stamp renotifiedAt", "emergencyId", emergency.ID, "error", err)
			continue
		}

		zap.S().Infow("re-notified unanswered emergency",
			"emergencyId", emergency.ID,
			"successCount", receipt.SuccessCount,
			"failureCount", receipt.FailureCount,
		)
		renotified++
	}

	zap.S().Infow("Re-notify job complete",
		"instance", s.instanceID,
		"candidates", len(emergencies),
		"renotified", renotified,
	)
}
