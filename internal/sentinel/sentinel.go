package sentinel

import (
	"fmt"
	"time"

	"github.com/mizuki1229/Discord-gekou/internal/logging"
	"github.com/mizuki1229/Discord-gekou/internal/store"
)

const (
	// WarnThreshold is the violation count at which escalation fires.
	WarnThreshold = 3
	// RestrictionDuration is how long the timed restriction lasts.
	RestrictionDuration = 24 * time.Hour
)

// Actions are the outbound platform calls the sentinel may issue. Both are
// best-effort consequences; the warn count is the durable ground truth.
type Actions interface {
	DeleteMessage(channelID, messageID string) error
	RestrictMember(guildID, userID string, duration time.Duration, reason string) error
}

// Notifier delivers escalation alerts to delegated admins.
type Notifier interface {
	Notify(guildID string, adminIDs []string, message string)
}

// Message is the inbound message view the sentinel inspects.
type Message struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	AuthorID    string
	AuthorIsBot bool
	AuthorRoles []string
	Content     string
}

// Sentinel deletes invite-link spam, tracks per-user warning counts and
// escalates repeat offenders.
type Sentinel struct {
	store    *store.Store
	actions  Actions
	notifier Notifier
}

func New(st *store.Store, actions Actions, notifier Notifier) *Sentinel {
	return &Sentinel{store: st, actions: actions, notifier: notifier}
}

// OnMessage inspects one inbound message. The sentinel is armed only in
// guilds that have configured an exempt role; everything else passes through
// untouched. Escalation fires exactly once, at the threshold crossing.
func (s *Sentinel) OnMessage(m Message) {
	if m.AuthorIsBot {
		return
	}

	cfg := s.store.Get(m.GuildID)
	if cfg.InviteExemptRoleID == "" {
		return
	}
	if !ContainsInvite(m.Content) {
		return
	}
	for _, r := range m.AuthorRoles {
		if r == cfg.InviteExemptRoleID {
			return
		}
	}

	// Best-effort delete; the message may already be gone.
	if err := s.actions.DeleteMessage(m.ChannelID, m.MessageID); err != nil {
		logging.Warn("sentinel: delete message %s in %s: %v", m.MessageID, m.ChannelID, err)
	}

	count, err := s.store.IncrementWarn(m.GuildID, m.AuthorID)
	if err != nil {
		logging.Error("sentinel: warn count for %s in guild %s not persisted: %v", m.AuthorID, m.GuildID, err)
		return
	}

	logging.Info("sentinel: invite link from %s in guild %s, warn count now %d", m.AuthorID, m.GuildID, count)

	if count == WarnThreshold {
		s.escalate(m.GuildID, m.AuthorID, cfg.AdminIDs())
	}
}

// escalate applies the timed restriction and alerts every delegated admin.
// A failed restriction is logged, never rolled back into the count.
func (s *Sentinel) escalate(guildID, userID string, adminIDs []string) {
	reason := fmt.Sprintf("invite spam: %d violations", WarnThreshold)

	if err := s.actions.RestrictMember(guildID, userID, RestrictionDuration, reason); err != nil {
		logging.Error("sentinel: restrict %s in guild %s: %v", userID, guildID, err)
	}

	s.notifier.Notify(guildID, adminIDs,
		fmt.Sprintf("<@%s> reached %d invite-spam violations and was restricted for %s.",
			userID, WarnThreshold, RestrictionDuration))
}
