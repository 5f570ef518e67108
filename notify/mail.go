package notify

import (
	"context"
	"fmt"
)

// EntryRenderer produces the HTML body for a position transition.
type EntryRenderer interface {
	EntryReport(ctx context.Context, e Event) string
}

// MailNotifier renders an entry report and mails it.
type MailNotifier struct {
	render EntryRenderer
	mail   Mailer
}

func NewMailNotifier(render EntryRenderer, mail Mailer) *MailNotifier {
	return &MailNotifier{render: render, mail: mail}
}

func (m *MailNotifier) Notify(ctx context.Context, e Event) error {
	body := m.render.EntryReport(ctx, e)
	if err := m.mail.Send(ctx, Subject(e), body); err != nil {
		return fmt.Errorf("entry report %s: %w", e.Symbol, err)
	}
	return nil
}

// Subject is the mail subject line for a transition.
func Subject(e Event) string {
	if e.Action.IsClose() {
		return fmt.Sprintf("[Exit] %s", e.Title())
	}
	return fmt.Sprintf("[Entry] %s", e.Title())
}
