// Package jobs provides scheduled background tasks for the coffee shop.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. CartExpiryJob - deletes carts nobody touched for longer than CART_TTL
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewCartExpiryJob(purgeHandler, 24*time.Hour, "", 30*time.Second, logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are cron expressions with a leading seconds field, so
// "0 0 * * * *" is hourly. Descriptors such as "@every 10m" work too.
// A run that is still in progress when the next one is due is skipped.
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. Failed job starts stop
// any already running jobs.
package jobs
