package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendLoanApproved(ctx context.Context, email, name, loanCode, assetName string) error {
	subject := fmt.Sprintf("Loan %s approved", loanCode)
	plainText := fmt.Sprintf("Hi %s, your loan request %s for %s has been approved. You can pick the items up on the scheduled loan date.", name, loanCode, assetName)
	htmlContent := fmt.Sprintf(`<p>Hi %s,</p><p>Your loan request <strong>%s</strong> for <strong>%s</strong> has been approved. You can pick the items up on the scheduled loan date.</p>`, name, loanCode, assetName)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendLoanRejected(ctx context.Context, email, name, loanCode, reason string) error {
	subject := fmt.Sprintf("Loan %s rejected", loanCode)
	plainText := fmt.Sprintf("Hi %s, your loan request %s was rejected. Reason: %s", name, loanCode, reason)
	htmlContent := fmt.Sprintf(`<p>Hi %s,</p><p>Your loan request <strong>%s</strong> was rejected.</p><p>Reason: %s</p>`, name, loanCode, reason)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, loanCode string, dueDate time.Time) error {
	subject := fmt.Sprintf("Loan %s is overdue", loanCode)
	plainText := fmt.Sprintf("Hi %s, your loan %s was due back on %s. Please return the items as soon as possible.", name, loanCode, dueDate.Format("2 January 2006"))
	htmlContent := fmt.Sprintf(`<p>Hi %s,</p><p>Your loan <strong>%s</strong> was due back on %s. Please return the items as soon as possible.</p>`, name, loanCode, dueDate.Format("2 January 2006"))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
