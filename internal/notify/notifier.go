package notify

import (
	"fmt"

	"github.com/martinlindhe/notify"
	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/monitor"
)

// Notifier sends desktop notifications when the health indicator
// changes state, standing in for a tray icon recolor.
type Notifier struct {
	enabled bool
}

// NewNotifier creates a new notifier instance
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
	}
}

// NotifyHealthChange announces a transition of the primary target's
// health indicator.
func (n *Notifier) NotifyHealthChange(primary config.Target, state monitor.HealthState) {
	if !n.enabled {
		return
	}

	switch state {
	case monitor.HealthRed:
		title := fmt.Sprintf("🔴 %s - Connection Degraded", primary.Name)
		message := fmt.Sprintf("Recent pings to %s are consistently slow or failing", primary.Address)
		notify.Notify("Pingwatch", title, message, "")
	case monitor.HealthGreen:
		title := fmt.Sprintf("🟢 %s - Connection Recovered", primary.Name)
		message := fmt.Sprintf("Pings to %s are back to normal", primary.Address)
		notify.Notify("Pingwatch", title, message, "")
	}
}
