package targets

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/sirupsen/logrus"
)

// Notification is what the sink accepts. Fire-and-forget; delivery failures
// are logged, never propagated to the tracker.
type Notification struct {
	BusinessId string
	EventType  string
	PeriodKey  string
	Message    string
	Severity   string
}

// PubSubNotifier publishes notifications to the configured Pub/Sub topic in a
// detached goroutine so the tracker never waits on the broker.
type PubSubNotifier struct {
	logger *logrus.Logger
}

func NewPubSubNotifier(logger *logrus.Logger) *PubSubNotifier {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &PubSubNotifier{logger: logger}
}

func (p *PubSubNotifier) Notify(ctx context.Context, n Notification) {
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, err := config.PublishNotification(pubCtx, config.NotificationMessage{
			BusinessId:    n.BusinessId,
			EventType:     n.EventType,
			PeriodKey:     n.PeriodKey,
			Message:       n.Message,
			Severity:      n.Severity,
			CorrelationId: correlationId,
			CreatedAt:     time.Now(),
		})
		if err != nil {
			config.LogError(p.logger, "targets", "Notify", "publishing target notification", map[string]any{
				"businessId": n.BusinessId,
				"eventType":  n.EventType,
			}, err)
		}
	}()
}

// LogNotifier writes notifications to the structured log. Used when Pub/Sub
// is not configured.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	l.logger.WithFields(logrus.Fields{
		"businessId": n.BusinessId,
		"eventType":  n.EventType,
		"periodKey":  n.PeriodKey,
		"severity":   n.Severity,
	}).Info(n.Message)
}
