package scheduler

import (
	"github.com/ikkim/freshcart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartMirrorer re-sends the current cart to the remote mirror
type CartMirrorer interface {
	MirrorNow()
}

// MirrorScheduler periodically re-publishes the cart so a mirror that missed
// a best-effort update eventually catches up
type MirrorScheduler struct {
	cron     *cron.Cron
	schedule string
	mirrorer CartMirrorer
}

func NewMirrorScheduler(schedule string, mirrorer CartMirrorer) *MirrorScheduler {
	return &MirrorScheduler{
		cron:     cron.New(),
		schedule: schedule,
		mirrorer: mirrorer,
	}
}

// Start registers the job and starts the cron runner. An empty schedule
// leaves the scheduler idle.
func (s *MirrorScheduler) Start() error {
	if s.schedule == "" {
		logger.Info("Cart mirror scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for cart mirror", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart mirror scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *MirrorScheduler) run() {
	logger.Debug("Starting scheduled cart mirror")
	s.mirrorer.MirrorNow()
}

// Stop waits for a running job to finish
func (s *MirrorScheduler) Stop() {
	logger.Info("Stopping cart mirror scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Cart mirror scheduler stopped")
}
