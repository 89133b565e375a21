package notifier

import (
	"testing"
	"time"

	config "github.com/NordCoder/Cookbook/internal/config/email-notifier"
	"github.com/stretchr/testify/require"
)

func TestNewMailerCarriesTLSSettings(t *testing.T) {
	m := NewMailer(config.SMTP{
		Addr:      "smtp.example.com:465",
		UseTLS:    true,
		VerifyTLS: true,
		Timeout:   5 * time.Second,
		From:      "noreply@cookbook.dev",
	})
	require.True(t, m.useTLS)
	require.True(t, m.verifyTLS)

	m = NewMailer(config.SMTP{Addr: "localhost:1025", UseTLS: true})
	require.False(t, m.verifyTLS)
}

func TestHostStripsPort(t *testing.T) {
	require.Equal(t, "smtp.example.com", host("smtp.example.com:465"))
	require.Equal(t, "localhost", host("localhost"))
}
