package services

import (
	applog "collegecart/internal/log"
)

// NotificationSink is the out-of-band channel the delivery code travels
// through. The HTTP response never carries it.
type NotificationSink interface {
	Send(userID, orderID, code string) error
}

// LogSink stands in for the SMS/email gateway in development: the code
// is written to the structured log so it can be read off the console.
type LogSink struct{}

func (LogSink) Send(userID, orderID, code string) error {
	applog.Info(nil, "notify.otp", map[string]any{
		"user_id": userID, "order_id": orderID, "code": code,
	})
	return nil
}
