package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/NordCoder/Cookbook/internal/domain/mail"
	"github.com/NordCoder/Cookbook/internal/obs/retry"
)

// MailJobsKafka publishes outbound email jobs for the email-notifier worker.
// Publishing is retried briefly; the caller decides whether a final failure
// is fatal (registration) or swallowed (forgot-password).
type MailJobsKafka struct {
	p   *Producer
	pol retry.Policy
}

var _ mail.Dispatcher = (*MailJobsKafka)(nil)

func NewMailJobsKafka(p *Producer, log *zap.Logger) *MailJobsKafka {
	return &MailJobsKafka{p: p, pol: retry.MailPublishPolicy(log)}
}

func (d *MailJobsKafka) SendVerification(ctx context.Context, to, code string) error {
	return d.publish(ctx, mail.Job{Type: mail.TypeVerification, To: to, Code: code})
}

func (d *MailJobsKafka) SendResetLink(ctx context.Context, to, link string) error {
	return d.publish(ctx, mail.Job{Type: mail.TypePasswordReset, To: to, Link: link})
}

func (d *MailJobsKafka) publish(ctx context.Context, job mail.Job) error {
	return retry.Do(ctx, func() error {
		return d.p.PublishJSON(ctx, []byte(job.To), job)
	}, d.pol)
}
