package mail

import "context"

// Message is a fully composed outgoing email. HTMLBody already contains
// the embedded tracking reference appended at the end.
type Message struct {
	To         string
	Subject    string
	TextBody   string // Plain-text fallback.
	HTMLBody   string
	SenderName string
	ReplyTo    string
}

// Sender defines an interface for transmitting a composed message.
// This decouples the batch loop from the concrete delivery mechanism.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
