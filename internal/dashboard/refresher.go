package dashboard

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Refresher reloads the sales feed on a fixed interval
type Refresher struct {
	scheduler *gocron.Scheduler
	service   *Service
	interval  time.Duration
}

// NewRefresher creates a refresher. An interval of zero disables it.
func NewRefresher(service *Service, interval time.Duration) *Refresher {
	scheduler := gocron.NewScheduler(time.Local)
	scheduler.SingletonModeAll()

	return &Refresher{
		scheduler: scheduler,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the reload job and stops it when ctx is done
func (r *Refresher) Start(ctx context.Context) error {
	if r.interval <= 0 {
		logrus.Info("Sales feed refresh disabled by configuration")
		return nil
	}

	_, err := r.scheduler.Every(r.interval).WaitForSchedule().Do(func() {
		if err := r.service.Reload(ctx); err != nil {
			logrus.WithError(err).Warn("Scheduled sales feed refresh failed")
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to schedule sales feed refresh")
	}

	logrus.WithField("interval", r.interval.String()).Info("Starting sales feed refresh")
	r.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping sales feed refresh")
		r.scheduler.Stop()
	}()

	return nil
}

// Running reports whether the scheduler is active
func (r *Refresher) Running() bool {
	return r.scheduler.IsRunning()
}
