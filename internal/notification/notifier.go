package notification

import "go.uber.org/zap"

// Notifier is the outbound mail sink. Delivery is fire-and-forget from the
// caller's perspective; a failed send must never fail the purchase it
// announces.
type Notifier interface {
	SendEmail(to, subject, template string, data map[string]any) error
}

// LogNotifier writes the email to the log instead of sending it. Real SMTP
// wiring can replace it without touching callers.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendEmail(to, subject, template string, data map[string]any) error {
	n.log.Info("email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("template", template),
		zap.Any("data", data),
	)
	return nil
}
