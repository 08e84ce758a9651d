package jobs

import (
	"sarpras-backend/internal/config"
	"sarpras-backend/internal/logger"
	"sarpras-backend/internal/repository"
	"sarpras-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	loanRepo repository.LoanRepository
	userRepo repository.UserRepository
	email    service.EmailService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(loanRepo repository.LoanRepository, userRepo repository.UserRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		loanRepo: loanRepo,
		userRepo: userRepo,
		email:    email,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ActivateDueLoans()
	jr.SendOverdueReminders()
}
