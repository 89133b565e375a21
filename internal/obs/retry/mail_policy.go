package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// MailPublishPolicy bounds how long an auth request may block on the mail
// queue: a few quick attempts, then give up and let the caller decide.
func MailPublishPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "mail_publish",
		Attempts: 3,
		Backoff:  ExpoJitter{Base: 100 * time.Millisecond, Max: time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("mail publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("mail publish retries exhausted", zap.Error(err))
			}
		},
	}
}
