package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reloader is anything whose snapshot can be refreshed from storage
type Reloader interface {
	Load(ctx context.Context) error
}

// StartScheduler reloads the registry every interval so rows edited directly
// in the sheet show up without a restart. Intervals under a second are
// rounded up to one second. A zero interval disables the refresh.
// The returned channel is closed once ctx is cancelled and any running
// reload has finished.
func StartScheduler(ctx context.Context, r Reloader, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	c.Schedule(cron.Every(interval), cron.FuncJob(func() {
		loadCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := r.Load(loadCtx); err != nil {
			log.Printf("Error reloading fee sheet: %v", err)
		}
	}))

	log.Printf("Scheduler started, reloading fee sheet every %s", interval)
	c.Start()

	go func() {
		defer close(done)
		<-ctx.Done()
		<-c.Stop().Done()
		log.Println("Scheduler stopped")
	}()
	return done
}
