package utils

import (
	"fmt"
	"log"
	"time"

	"subman/config"
	"subman/database"

	"github.com/robfig/cron/v3"
)

// JobResult summarizes one job cycle.
type JobResult struct {
	Summary string
	Err     error
}

// Job is a periodic task. The scheduler and any manual trigger both go
// through Run.
type Job interface {
	Name() string
	Run() JobResult
}

// StatusReconcilerJob corrects stored subscription statuses against their
// renewal dates.
type StatusReconcilerJob struct{}

func (j *StatusReconcilerJob) Name() string { return "STATUS-RECONCILER" }

func (j *StatusReconcilerJob) Run() JobResult {
	store := &GormSubscriptionStore{Db: database.Database.Db}
	result, err := ReconcileSubscriptionStatuses(store, time.Now())
	if err != nil {
		return JobResult{Err: err}
	}
	return JobResult{Summary: fmt.Sprintf("active=%d inactive=%d updated=%d",
		result.Active, result.Inactive, result.Updated)}
}

// ExpiryReminderJob sends the grouped expiry notices.
type ExpiryReminderJob struct{}

func (j *ExpiryReminderJob) Name() string { return "EXPIRY-REMINDER" }

func (j *ExpiryReminderJob) Run() JobResult {
	store := &GormSubscriptionStore{Db: database.Database.Db}
	notifier := &SmtpExpiryNotifier{AdminEmail: config.AppConfig.AdminEmail}
	scanned, sent, err := ProcessExpiryReminders(store, notifier, time.Now(),
		config.AppConfig.ReminderOffsets, config.AppConfig.AppBaseURL)
	if err != nil {
		return JobResult{Err: err}
	}
	return JobResult{Summary: fmt.Sprintf("scanned=%d notices sent=%d", scanned, sent)}
}

// CurrencyRefreshJob pulls fresh exchange rates.
type CurrencyRefreshJob struct{}

func (j *CurrencyRefreshJob) Name() string { return "CURRENCY-REFRESH" }

func (j *CurrencyRefreshJob) Run() JobResult {
	updated, err := RefreshCurrencyRates(database.Database.Db)
	if err != nil {
		return JobResult{Err: err}
	}
	return JobResult{Summary: fmt.Sprintf("rates updated=%d", updated)}
}

func runJob(job Job) {
	log.Printf("[%s] Running...", job.Name())
	result := job.Run()
	if result.Err != nil {
		log.Printf("[%s] Cycle failed: %v", job.Name(), result.Err)
		return
	}
	log.Printf("[%s] Done: %s", job.Name(), result.Summary)
}

// InitializeScheduler registers all background jobs and starts the cron
// runner. The reminder job also runs once at process start so a restart on
// a reminder day does not lose that day's notices.
func InitializeScheduler() {
	cfg := config.AppConfig
	c := cron.New()

	reminder := &ExpiryReminderJob{}
	reconciler := &StatusReconcilerJob{}
	currency := &CurrencyRefreshJob{}

	if _, err := c.AddFunc(cfg.ReminderCron, func() { runJob(reminder) }); err != nil {
		log.Fatalf("Invalid reminder schedule %q: %v", cfg.ReminderCron, err)
	}
	if _, err := c.AddFunc(fmt.Sprintf("@every %dm", cfg.StatusInterval), func() { runJob(reconciler) }); err != nil {
		log.Fatalf("Invalid status interval %d: %v", cfg.StatusInterval, err)
	}
	if _, err := c.AddFunc(cfg.CurrencyCron, func() { runJob(currency) }); err != nil {
		log.Fatalf("Invalid currency schedule %q: %v", cfg.CurrencyCron, err)
	}

	c.Start()
	log.Printf("[SCHEDULER] Started: reminders %q, status every %dm, currency %q",
		cfg.ReminderCron, cfg.StatusInterval, cfg.CurrencyCron)

	if cfg.RunRemindersAtBoot {
		go runJob(reminder)
	}
}
