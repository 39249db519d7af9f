// Package jobs holds the scheduled maintenance routines.
package jobs

import (
	"context"
	"time"

	"nalia-backend/internal/recurrence"
	"nalia-backend/internal/repository"
	"nalia-backend/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RecurringEventsJob advances the stored occurrence date of recurring
// events once the current occurrence has passed, so list queries always
// see the upcoming date.
type RecurringEventsJob struct {
	eventRepo *repository.EventRepository
	hub       *services.FeedHub
	cron      *cron.Cron
}

// NewRecurringEventsJob creates the job with the given cron schedule
func NewRecurringEventsJob(eventRepo *repository.EventRepository, hub *services.FeedHub, schedule string) (*RecurringEventsJob, error) {
	j := &RecurringEventsJob{
		eventRepo: eventRepo,
		hub:       hub,
		cron:      cron.New(),
	}
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, err
	}
	return j, nil
}

// Start runs the job once immediately, then on its schedule
func (j *RecurringEventsJob) Start() {
	go j.run()
	j.cron.Start()
	log.Info().Msg("Recurring events job started")
}

// Stop stops the schedule and waits for a running pass to finish
func (j *RecurringEventsJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Recurring events job stopped")
}

func (j *RecurringEventsJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	events, err := j.eventRepo.ListRecurringBefore(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stale recurring events")
		return
	}

	advanced := 0
	for _, e := range events {
		if e.RecurrenceType == nil || e.RecurrenceDayOfWeek == nil {
			log.Warn().Str("event_id", e.ID).Msg("Recurring event without a rule, skipping")
			continue
		}
		rule := recurrence.Rule{
			Type:      *e.RecurrenceType,
			DayOfWeek: *e.RecurrenceDayOfWeek,
		}
		if e.RecurrenceWeek != nil {
			rule.WeekOfMonth = *e.RecurrenceWeek
		}

		next := recurrence.NextOccurrence(rule, now)
		if err := j.eventRepo.UpdateDate(ctx, e.ID, next); err != nil {
			log.Error().Err(err).Str("event_id", e.ID).Msg("Failed to advance recurring event")
			continue
		}

		e.EventDate = next
		j.hub.Publish("events", services.ChangeUpdate,
			map[string]string{"event_id": e.ID, "host_id": e.HostID}, e)
		advanced++
	}

	if advanced > 0 {
		log.Info().Int("count", advanced).Msg("Advanced recurring events")
	}
}
