// Package push delivers dispatched alerts outside the application. Delivery is best-effort:
// callers log failures and never roll anything back because of them.
package push

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type Permission string

const (
	Granted Permission = "granted"
	Denied  Permission = "denied"
)

var ErrPermissionDenied = errors.New("push permission denied")

type Pusher interface {
	RequestPermission(ctx context.Context) Permission
	Send(ctx context.Context, title, body string) error
}

// LogPusher writes notifications to the application log. It is the default when no
// external channel is configured.
type LogPusher struct{}

func (LogPusher) RequestPermission(ctx context.Context) Permission {
	return Granted
}

func (LogPusher) Send(ctx context.Context, title, body string) error {
	log.WithField("title", title).Info(body)
	return nil
}

type DisabledPusher struct{}

func (DisabledPusher) RequestPermission(ctx context.Context) Permission {
	return Denied
}

func (DisabledPusher) Send(ctx context.Context, title, body string) error {
	return ErrPermissionDenied
}
