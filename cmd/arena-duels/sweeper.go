package main

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/service"
)

// startExpirySweeper runs a background job that expires overdue fights.
// The store-level status guard makes a sweep safe to run alongside
// explicit expire requests and other replicas; a fight is only ever
// expired once. Returns a stop function for shutdown.
func startExpirySweeper(arena *service.Arena, every time.Duration, batch int) func() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("Failed to create expiry scheduler", err, nil)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if n := arena.SweepExpired(time.Now(), batch); n > 0 {
				logging.Info("Expired overdue fights", logging.Fields{"count": n})
			}
		}),
	)
	if err != nil {
		logging.Fatal("Failed to schedule expiry sweep", err, nil)
	}
	sched.Start()
	return func() {
		if err := sched.Shutdown(); err != nil {
			logging.Error("expiry scheduler shutdown failed", err, nil)
		}
	}
}
