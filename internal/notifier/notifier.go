package notifier

import (
	"github.com/mizuki1229/Discord-gekou/internal/logging"
)

// Sender delivers one direct message to one user.
type Sender interface {
	SendDirectMessage(userID, content string) error
}

// Notifier fans an escalation alert out to delegated admins. Fire-and-forget
// telemetry: each delivery is independent and nothing is retried.
type Notifier struct {
	sender Sender
}

func New(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Notify attempts direct delivery to every admin id. One recipient failing
// (closed DMs, stale id) never stops the rest.
func (n *Notifier) Notify(guildID string, adminIDs []string, message string) {
	for _, id := range adminIDs {
		if err := n.sender.SendDirectMessage(id, message); err != nil {
			logging.Warn("notifier: delivery to %s for guild %s failed: %v", id, guildID, err)
		}
	}
}
