// Package worker runs the scheduled jobs of the booking service.
package worker

import (
	"context"
	"fmt"
	"shutter/config"
	"shutter/infras/otel"
	"shutter/internal/domains/booking/service"
	"shutter/shared/constant"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const defaultReminderWindow = 24 * time.Hour

type Scheduler struct {
	cfg     *config.Config
	booking service.Booking
	otel    otel.Otel
	cron    *cron.Cron
}

func New(cfg *config.Config, booking service.Booking, otel otel.Otel) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		booking: booking,
		otel:    otel,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Worker.ReminderCron, s.SendShootReminders); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.cfg.Worker.ReminderCron, err)
	}

	s.cron.Start()

	log.Info().Str("schedule", s.cfg.Worker.ReminderCron).Msg("Shoot reminder job scheduled.")

	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	log.Info().Msg("Scheduler stopped.")
}

// SendShootReminders notifies participants of shoots starting within the window.
func (s *Scheduler) SendShootReminders() {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".SendShootReminders")
	defer scope.End()

	window := time.Duration(s.cfg.Worker.ReminderWindowHours) * time.Hour
	if window <= 0 {
		window = defaultReminderWindow
	}

	sent, err := s.booking.SendShootReminders(ctx, window)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send shoot reminders")

		return
	}

	scope.SetAttribute("reminders.sent", sent)
	log.Info().Int("sent", sent).Dur("window", window).Msg("Shoot reminders sent.")
}
