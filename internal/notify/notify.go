// Package notify delivers "someone wants to learn your skill" notifications.
// Delivery is best-effort: callers log failures and move on.
package notify

import (
	"context"
	"errors"
)

// RequestNotification carries the fields sent when a request is created.
type RequestNotification struct {
	ToName     string `json:"to_name"`
	FromName   string `json:"from_name"`
	SkillTitle string `json:"skill_title"`
	Message    string `json:"message"`
	ReplyTo    string `json:"reply_to"`
}

// Params exposes the fields as template parameters.
func (n RequestNotification) Params() map[string]string {
	return map[string]string{
		"to_name":     n.ToName,
		"from_name":   n.FromName,
		"skill_title": n.SkillTitle,
		"message":     n.Message,
		"reply_to":    n.ReplyTo,
	}
}

// Notifier sends a request notification through one channel.
type Notifier interface {
	NotifyRequest(ctx context.Context, n RequestNotification) error
}

// Nop is used when no channel is configured.
type Nop struct{}

func (Nop) NotifyRequest(context.Context, RequestNotification) error { return nil }

// Multi sends through every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyRequest(ctx context.Context, n RequestNotification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.NotifyRequest(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine returns Nop for no notifiers, the notifier itself for one, and
// Multi otherwise.
func Combine(notifiers ...Notifier) Notifier {
	switch len(notifiers) {
	case 0:
		return Nop{}
	case 1:
		return notifiers[0]
	default:
		return Multi(notifiers)
	}
}
