package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartPollCloserWorker closes reaction polls once their time runs out.
// Returns a cleanup function to stop the worker gracefully
func (b *Bot) StartPollCloserWorker(ctx context.Context, interval time.Duration) func() {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	closeExpired := func() {
		if err := b.reactPoll.CloseExpired(ctx, time.Now()); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("Error closing expired polls")
		}
	}

	go func() {
		defer close(done)
		log.Info("Poll closer worker started")

		// Polls that ended while the bot was offline are closed right away
		closeExpired()

		for {
			select {
			case <-ctx.Done():
				log.Info("Poll closer worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Poll closer worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				closeExpired()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
		<-done
	}
}
