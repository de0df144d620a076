package service

import "context"

// NotificationSink delivers a text alert to every configured operator
// recipient. Delivery is best effort: one recipient failing must not cancel
// the others, and the returned error only aggregates outcomes for logging.
type NotificationSink interface {
	Notify(ctx context.Context, message string) error
}
