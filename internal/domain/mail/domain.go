package mail

const (
	TypeVerification  = "email_verification"
	TypePasswordReset = "password_reset"
)

// Job is the wire format of a queued outbound email. Code is set for
// verification jobs, Link for password-reset jobs.
type Job struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Code string `json:"code,omitempty"`
	Link string `json:"link,omitempty"`
}
