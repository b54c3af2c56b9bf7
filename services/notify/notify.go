// Package notifysvc delivers calendar notifications outside of the API response.
package notifysvc

import (
	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
)

// LogNotifier writes notifications to the logger, failures as warnings.
type LogNotifier struct {
	logger core.Logger
}

var _ calendar.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger core.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ntf calendar.Notification) {
	extras := map[string]interface{}{
		"team_id":     ntf.TeamID,
		"description": ntf.Description,
	}
	if ntf.IsFailure() {
		n.logger.Warn(ntf.Title, extras)
		return
	}
	n.logger.Info(ntf.Title, extras)
}

// Multi fans a notification out to every notifier.
type Multi []calendar.Notifier

func (m Multi) Notify(ntf calendar.Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(ntf)
		}
	}
}
