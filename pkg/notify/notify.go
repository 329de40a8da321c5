// Package notify delivers generated reports. Email over SMTP is the only
// channel the collector ships; the Notifier interface leaves room for more.
package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// Channel identifies a notification channel type.
type Channel string

const (
	ChannelEmail Channel = "email"
)

// Message is one outgoing notification. Attachments are file paths bundled
// into the delivery (the HTML report, the share card).
type Message struct {
	Subject     string
	Body        string // plain text
	HTMLBody    string // rich body, preferred when non-empty
	Attachments []string
}

// Notifier sends messages on one channel.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
	Channel() Channel
}

// Dispatcher routes messages to registered channels.
type Dispatcher struct {
	notifiers map[Channel]Notifier
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		notifiers: make(map[Channel]Notifier),
		logger:    slog.Default(),
	}
}

// Register adds a notifier, replacing any previous one for its channel.
func (d *Dispatcher) Register(n Notifier) {
	d.notifiers[n.Channel()] = n
}

// Dispatch sends msg to the given channels. Failures are logged per channel
// and folded into one error.
func (d *Dispatcher) Dispatch(ctx context.Context, channels []Channel, msg Message) error {
	var failed int
	for _, ch := range channels {
		notifier, ok := d.notifiers[ch]
		if !ok {
			d.logger.Warn("notifier not registered", "channel", ch)
			continue
		}
		if err := notifier.Send(ctx, msg); err != nil {
			d.logger.Error("notification failed", "channel", ch, "error", err)
			failed++
			continue
		}
		d.logger.Info("notification sent", "channel", ch, "subject", msg.Subject)
	}
	if failed > 0 {
		return fmt.Errorf("failed to send %d/%d notifications", failed, len(channels))
	}
	return nil
}
