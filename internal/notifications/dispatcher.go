package notifications

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/database"
)

// Channel delivers an alert to one destination
type Channel interface {
	Name() string
	Send(alert alerting.Alert) error
}

// MetricsSink counts delivery attempts per channel
type MetricsSink interface {
	RecordNotification(channel string, success bool)
}

// Dispatcher fans an alert out to every configured channel, records each
// attempt in the delivery audit log, and reports per-channel failures
// without letting one channel's failure block the others. It implements
// alerting.Notifier.
type Dispatcher struct {
	channels []Channel
	auditLog *database.NotificationLogRepository
	sink     MetricsSink
	logger   *logrus.Logger
}

// NewDispatcher creates a dispatcher. auditLog and sink may be nil.
func NewDispatcher(channels []Channel, auditLog *database.NotificationLogRepository, sink MetricsSink, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		auditLog: auditLog,
		sink:     sink,
		logger:   logger,
	}
}

// Notify delivers the alert to all channels. The returned error joins every
// per-channel failure; partial delivery is not retried here.
func (d *Dispatcher) Notify(alert alerting.Alert) error {
	var errs []error

	for _, ch := range d.channels {
		err := ch.Send(alert)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			d.logger.WithFields(logrus.Fields{
				"alert_id": alert.ID,
				"channel":  ch.Name(),
			}).WithError(err).Warn("Notification channel delivery failed")
		}

		if d.sink != nil {
			d.sink.RecordNotification(ch.Name(), err == nil)
		}
		d.record(alert, ch.Name(), err)
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) record(alert alerting.Alert, channel string, sendErr error) {
	if d.auditLog == nil {
		return
	}

	rec := database.NotificationRecord{
		AlertID:  alert.ID,
		Channel:  channel,
		Severity: string(alert.Severity),
		Title:    alert.Title,
		Success:  sendErr == nil,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}

	if err := d.auditLog.Record(rec); err != nil {
		d.logger.WithFields(logrus.Fields{
			"alert_id": alert.ID,
			"channel":  channel,
		}).WithError(err).Warn("Failed to write notification audit record")
	}
}
