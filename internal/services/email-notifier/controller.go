package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/NordCoder/Cookbook/internal/domain/mail"
	kafkax "github.com/NordCoder/Cookbook/internal/repository/kafka"
)

type Controller struct {
	Log *zap.Logger
	Sub *kafkax.Consumer
	UC  *Handler
}

func (c *Controller) Run(ctx context.Context) error {
	handler := kafkax.JSONHandler(
		func(ctx context.Context, _ []byte, job *mail.Job) error {
			if job.To == "" {
				c.Log.Warn("mail job: empty recipient", zap.String("type", job.Type))
				return nil
			}
			return c.UC.HandleJob(ctx, *job)
		},
	)
	return c.Sub.Consume(ctx, handler)
}
