package jobs

import (
	"context"
	"time"

	"sarpras-backend/internal/logger"
)

// ActivateDueLoans moves APPROVED loans whose loan date has arrived into
// BORROWED, so overdue tracking only ever looks at loans that are
// actually out of the building.
func (jr *JobRunner) ActivateDueLoans() {
	jr.runWithRecovery("ActivateDueLoans", func() {
		ctx := context.Background()

		ids, err := jr.loanRepo.MarkBorrowed(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to activate due loans", "error", err)
			return
		}

		logger.Info("Activated due loans", "count", len(ids))
		for _, id := range ids {
			logger.Debug("Loan marked as borrowed", "loan_id", id)
		}
	})
}

// SendOverdueReminders emails every requester whose outstanding loan is
// past its estimated return date.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		overdue, err := jr.loanRepo.ListOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		sent := 0
		for _, loan := range overdue {
			user, err := jr.userRepo.GetByID(ctx, loan.RequesterID)
			if err != nil {
				logger.Error("Failed to load requester for overdue loan", "loan_id", loan.ID, "error", err)
				continue
			}
			if user.Email == "" {
				continue
			}
			if err := jr.email.SendOverdueReminder(ctx, user.Email, user.FullName, loan.Code, loan.EstimatedReturnDate); err != nil {
				logger.Error("Failed to send overdue reminder", "loan_id", loan.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent overdue reminders", "overdue", len(overdue), "sent", sent)
	})
}
