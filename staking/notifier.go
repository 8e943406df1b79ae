package staking

import "log/slog"

// Notifier receives the outcome of every mutating operation. The web layer
// turns these into toasts; the CLI logs them.
type Notifier interface {
	Success(title, description string)
	Failure(title, description string)
}

// LogNotifier reports outcomes through a structured logger.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(title, description string) {
	n.log.Info(title, slog.String("details", description))
}

func (n *LogNotifier) Failure(title, description string) {
	n.log.Error(title, slog.String("details", description))
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string, string) {}
func (NopNotifier) Failure(string, string) {}
