package notifier

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/NordCoder/Cookbook/internal/domain/mail"
	"github.com/NordCoder/Cookbook/internal/domain/verification"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_jobs_consumed_total",
		Help: "Mail jobs consumed from the queue",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_emails_sent_total",
		Help: "Emails sent",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "email_notifier_errors_total",
		Help: "Mail jobs that failed",
	})
)

// Handler turns a queued mail job into an outgoing email.
type Handler struct {
	Out mail.Sender
	Log *zap.Logger
}

func (h *Handler) HandleJob(ctx context.Context, job mail.Job) error {
	mConsumed.Inc()

	var subject, body string
	switch job.Type {
	case mail.TypeVerification:
		subject = "Your verification code"
		body = fmt.Sprintf(
			"Hello!\n\nYour verification code: %s\nIt expires in %d minutes.\n\n"+
				"If you did not request a code, just ignore this email.\n— CookBook",
			job.Code, int(verification.CodeTTL.Minutes()),
		)
	case mail.TypePasswordReset:
		// The reset TTL is the issuing service's config; the body names no
		// number so the copy cannot drift from it.
		subject = "Password reset link"
		body = fmt.Sprintf(
			"Hello!\n\nTo reset your password, follow the link: %s\n"+
				"The link is single use and expires soon.\n\n"+
				"If you did not request a reset, ignore this email.\n— CookBook",
			job.Link,
		)
	default:
		// Unknown types are dropped, not retried: redelivery would not fix them.
		h.Log.Warn("mail job: unknown type", zap.String("type", job.Type), zap.String("to", job.To))
		return nil
	}

	if err := h.Out.Send(ctx, job.To, subject, body); err != nil {
		mErrors.Inc()
		return fmt.Errorf("send email: %w", err)
	}
	mSent.Inc()
	return nil
}
