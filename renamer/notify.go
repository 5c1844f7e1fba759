package renamer

import (
	"go.uber.org/zap"

	"go_renamer/core"
	"go_renamer/history"
	"go_renamer/logging"
)

// Notifier receives a callback after every recorded outcome. Implementations
// must not block; the orchestrator calls them inline.
type Notifier interface {
	Notify(req core.DownloadRequest, entry history.Entry)
}

// LogNotifier writes outcome notifications to the service log. It is the
// default notifier when no desktop integration is configured.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

// Notify logs the outcome of one rename attempt.
func (n *LogNotifier) Notify(req core.DownloadRequest, entry history.Entry) {
	fields := []zap.Field{
		zap.String("original", entry.Original),
		zap.String("outcome", string(entry.Outcome)),
		zap.String("file_type", entry.FileType),
	}
	switch entry.Outcome {
	case history.OutcomeSuccess:
		fields = append(fields, zap.String("renamed", entry.Renamed))
		n.logger.Info("download renamed", fields...)
	case history.OutcomeFailure:
		fields = append(fields, zap.String("error", entry.Error))
		n.logger.Warn("rename failed", fields...)
	default:
		n.logger.Info("download skipped", fields...)
	}
}
