package commands

import (
	"github.com/bwmarrin/discordgo"
)

// handleJoin handles /join: the bot joins the invoker's current voice
// channel.
func (h *Handler) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil || i.GuildID == "" {
		return respondEphemeral(s, i, "❌ Use this command inside a server.")
	}

	channelID, ok := h.platform.UserVoiceChannel(i.GuildID, user.ID)
	if !ok {
		return respondEphemeral(s, i, "❌ Join a voice channel first.")
	}

	if err := h.voice.Join(i.GuildID, channelID); err != nil {
		return err
	}

	return respondEphemeral(s, i, "🔊 Joined your voice channel.")
}

// handleLeave handles /leave.
func (h *Handler) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" {
		return respondEphemeral(s, i, "❌ Use this command inside a server.")
	}

	if _, active := h.platform.BotChannel(i.GuildID); !active {
		return respondEphemeral(s, i, "❌ Not in a voice channel.")
	}

	if err := h.voice.Leave(i.GuildID); err != nil {
		return err
	}

	return respondEphemeral(s, i, "👋 Left the voice channel.")
}
