package service

import (
	"context"
	"log"
	"time"

	"github.com/movietrack/backend/internal/model"
)

type premiereStore interface {
	ListMoviesPremieringBetween(ctx context.Context, from, to time.Time) ([]model.PremiereMovie, error)
}

type reminderMailer interface {
	SendPremiereReminder(email, title string) error
}

// ReminderService emails each owner whose movie premieres on the current day.
// It runs independently of the request path; a failed email is logged and the
// rest of the batch continues.
type ReminderService struct {
	store    premiereStore
	mailer   reminderMailer
	interval time.Duration
	stop     chan struct{}
}

func NewReminderService(store premiereStore, mailer reminderMailer, interval time.Duration) *ReminderService {
	return &ReminderService{
		store:    store,
		mailer:   mailer,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs one pass immediately, then repeats on the configured interval.
func (s *ReminderService) Start() {
	log.Printf("[Reminder] premiere reminder job started (runs every %v)", s.interval)

	s.sendReminders(time.Now())

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sendReminders(time.Now())
			case <-s.stop:
				ticker.Stop()
				log.Println("[Reminder] premiere reminder job stopped")
				return
			}
		}
	}()
}

func (s *ReminderService) Stop() {
	close(s.stop)
}

func (s *ReminderService) sendReminders(now time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	ctx := context.Background()
	movies, err := s.store.ListMoviesPremieringBetween(ctx, startOfDay, endOfDay)
	if err != nil {
		log.Printf("[Reminder] failed to load premiering movies: %v", err)
		return
	}
	if len(movies) == 0 {
		return
	}

	log.Printf("[Reminder] %d movie(s) premiering today", len(movies))
	for _, m := range movies {
		if err := s.mailer.SendPremiereReminder(m.OwnerEmail, m.Title); err != nil {
			log.Printf("[Reminder] failed to email %s about %q: %v", m.OwnerEmail, m.Title, err)
		}
	}
}
