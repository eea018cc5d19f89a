package voice

import (
	"github.com/mizuki1229/Discord-gekou/internal/logging"
)

// Controller is the slice of the platform's voice subsystem the manager
// drives: session lifecycle plus occupancy inspection.
type Controller interface {
	JoinChannel(guildID, channelID string) error
	LeaveChannel(guildID string) error
	// BotChannel returns the channel of the bot's active voice session in
	// the guild, if any.
	BotChannel(guildID string) (channelID string, ok bool)
	// NonBotOccupants counts members other than bots currently in the
	// channel.
	NonBotOccupants(guildID, channelID string) int
}

// Manager owns the bot's voice sessions and reaps the ones that have gone
// bot-only.
type Manager struct {
	ctrl Controller
}

func New(ctrl Controller) *Manager {
	return &Manager{ctrl: ctrl}
}

// Join connects the bot to a voice channel.
func (m *Manager) Join(guildID, channelID string) error {
	return m.ctrl.JoinChannel(guildID, channelID)
}

// Leave tears down the bot's voice session in a guild.
func (m *Manager) Leave(guildID string) error {
	return m.ctrl.LeaveChannel(guildID)
}

// OnVoiceStateChanged re-evaluates the bot's session in the guild and tears
// it down once no non-bot members remain. Safe to invoke redundantly: with
// no active session it does nothing.
func (m *Manager) OnVoiceStateChanged(guildID string) {
	channelID, ok := m.ctrl.BotChannel(guildID)
	if !ok {
		return
	}

	if m.ctrl.NonBotOccupants(guildID, channelID) > 0 {
		return
	}

	logging.Info("voice: channel %s in guild %s is bot-only, leaving", channelID, guildID)
	if err := m.ctrl.LeaveChannel(guildID); err != nil {
		logging.Warn("voice: leave guild %s: %v", guildID, err)
	}
}
