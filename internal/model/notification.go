package model

import "context"

// NotificationLevel is the severity of a user-facing notification.
type NotificationLevel string

const (
	NotificationInfo  NotificationLevel = "info"
	NotificationError NotificationLevel = "error"
)

// Notification is a short message shown to the user, the CLI counterpart of a toast.
type Notification struct {
	Level   NotificationLevel
	Message string
	Status  int
	Method  string
	Path    string
}

// Notifier delivers notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
