package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Cookbook/internal/domain/mail"
)

type fakeSender struct {
	to, subject, body string
	calls             int
	fail              bool
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.calls++
	if f.fail {
		return errors.New("smtp down")
	}
	f.to, f.subject, f.body = to, subject, body
	return nil
}

func TestHandleVerificationJob(t *testing.T) {
	out := &fakeSender{}
	h := &Handler{Out: out, Log: zap.NewNop()}

	err := h.HandleJob(context.Background(), mail.Job{
		Type: mail.TypeVerification,
		To:   "alice@example.com",
		Code: "042137",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", out.to)
	require.Contains(t, out.subject, "verification code")
	require.Contains(t, out.body, "042137")
}

func TestHandlePasswordResetJob(t *testing.T) {
	out := &fakeSender{}
	h := &Handler{Out: out, Log: zap.NewNop()}

	link := "http://localhost:5173/reset-password?token=abc"
	err := h.HandleJob(context.Background(), mail.Job{
		Type: mail.TypePasswordReset,
		To:   "alice@example.com",
		Link: link,
	})
	require.NoError(t, err)
	require.Contains(t, out.subject, "reset")
	require.Contains(t, out.body, link)
	require.Contains(t, out.body, "single use")
	// The TTL lives in the issuing service's config; the copy must not pin it.
	require.NotContains(t, out.body, "minutes")
}

func TestHandleUnknownJobTypeIsDropped(t *testing.T) {
	out := &fakeSender{}
	h := &Handler{Out: out, Log: zap.NewNop()}

	err := h.HandleJob(context.Background(), mail.Job{Type: "newsletter", To: "a@b.c"})
	require.NoError(t, err)
	require.Zero(t, out.calls)
}

func TestHandleSendFailurePropagates(t *testing.T) {
	out := &fakeSender{fail: true}
	h := &Handler{Out: out, Log: zap.NewNop()}

	err := h.HandleJob(context.Background(), mail.Job{
		Type: mail.TypeVerification,
		To:   "alice@example.com",
		Code: "000001",
	})
	require.Error(t, err)
}
