package pipeline

import (
	"log/slog"
)

// LogObserver reports events through logger.
func LogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(event Event) {
		attrs := []any{"stage", string(event.Stage)}
		if event.Locale != "" {
			attrs = append(attrs, "locale", event.Locale)
		}
		if event.Detail != "" {
			attrs = append(attrs, "detail", event.Detail)
		}
		switch event.Kind {
		case StageStarted:
			logger.Debug("stage started", attrs...)
		case StageDone:
			logger.Debug("stage done", attrs...)
		case StageSkipped:
			logger.Info("stage skipped", attrs...)
		case LocaleDone:
			logger.Info("locale done", attrs...)
		case LocaleFailed:
			logger.Error("locale failed", append(attrs, "error", event.Err)...)
		}
	})
}

// Observers fans one event out to several observers in order.
func Observers(observers ...Observer) Observer {
	return ObserverFunc(func(event Event) {
		for _, observer := range observers {
			if observer != nil {
				observer.Observe(event)
			}
		}
	})
}
