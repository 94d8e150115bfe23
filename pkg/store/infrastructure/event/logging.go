package event

import (
	"github.com/sirupsen/logrus"

	"storefront/pkg/store/domain/service"
)

type LogDispatcher struct {
	logger logrus.FieldLogger
}

func NewLogDispatcher(logger logrus.FieldLogger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(event service.Event) error {
	d.logger.WithFields(logrus.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}

// MultiDispatcher hands every event to each dispatcher in turn and reports the
// first failure after all of them have run.
type MultiDispatcher []service.EventDispatcher

func (m MultiDispatcher) Dispatch(event service.Event) error {
	var firstErr error
	for _, d := range m {
		if err := d.Dispatch(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
