package mail

import "context"

type Dispatcher interface {
	SendVerification(ctx context.Context, to, code string) error
	SendResetLink(ctx context.Context, to, link string) error
}

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
