// Package notify delivers a rendered report to chat (and optionally mail).
package notify

import (
	"context"
	"errors"
)

// Message is what gets delivered, Channel is only meaningful to chat notifiers.
type Message struct {
	Channel string
	Text    string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi delivers to every notifier in order, a failing notifier does not stop the rest.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		err := n.Notify(ctx, msg)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
