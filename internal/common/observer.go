package common

import "log/slog"

// Observer is notified of failures the engine degrades around instead of returning.
type Observer interface {
	// LoadFailed reports a pattern, schema or model source that could not be loaded.
	LoadFailed(source string, err error)
	// RuleFailed reports a custom validation whose condition could not be evaluated.
	RuleFailed(rule string, err error)
	// InferenceFailed reports a model prediction that failed.
	InferenceFailed(err error)
}

// NopObserver discards every notification.
type NopObserver struct{}

// LoadFailed implements Observer.
func (NopObserver) LoadFailed(string, error) {}

// RuleFailed implements Observer.
func (NopObserver) RuleFailed(string, error) {}

// InferenceFailed implements Observer.
func (NopObserver) InferenceFailed(error) {}

// LogObserver forwards notifications to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer that logs through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// LoadFailed implements Observer.
func (o *LogObserver) LoadFailed(source string, err error) {
	o.logger.Warn("Failed to load source", "source", source, "error", err)
}

// RuleFailed implements Observer.
func (o *LogObserver) RuleFailed(rule string, err error) {
	o.logger.Warn("Custom validation could not be evaluated", "rule", rule, "error", err)
}

// InferenceFailed implements Observer.
func (o *LogObserver) InferenceFailed(err error) {
	o.logger.Warn("Model inference failed, using rules only", "error", err)
}

// OrNop returns o, or a NopObserver when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
