package observability

import (
	"log/slog"

	"github.com/aretw0/skelly/pkg/domain"
)

// LoggingHooks logs every accepted ingest at Info and every rejection at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIngest: func(e *domain.IngestEvent) {
			logger.Info("ingest",
				"actor", e.Actor,
				"type", e.Type,
				"batch", e.BatchID,
				"frames", e.Frames,
			)
		},
		OnReject: func(e *domain.IngestEvent) {
			logger.Warn("ingest rejected",
				"actor", e.Actor,
				"type", e.Type,
				"frames", e.Frames,
				"landmarks", e.Landmarks,
				"error", e.Err,
			)
		},
	}
}

// Chain combines hooks so each event reaches all of them in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var onIngest, onReject []func(*domain.IngestEvent)
	for _, h := range hooks {
		if h.OnIngest != nil {
			onIngest = append(onIngest, h.OnIngest)
		}
		if h.OnReject != nil {
			onReject = append(onReject, h.OnReject)
		}
	}
	return domain.LifecycleHooks{
		OnIngest: fanOut(onIngest),
		OnReject: fanOut(onReject),
	}
}

func fanOut(fns []func(*domain.IngestEvent)) func(*domain.IngestEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(e *domain.IngestEvent) {
		for _, fn := range fns {
			fn(e)
		}
	}
}
