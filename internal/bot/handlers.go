package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/mizuki1229/Discord-gekou/internal/sentinel"
	"github.com/mizuki1229/Discord-gekou/internal/voice"
)

// SetupEventHandlers wires gateway events into the moderation components.
// Each invocation runs on its own goroutine so a handler suspended on a
// network call never stalls dispatch for other guilds.
func (s *Session) SetupEventHandlers(sent *sentinel.Sentinel, voiceMgr *voice.Manager) {
	s.discord.AddHandler(func(dg *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID == "" || m.Author == nil {
			return
		}

		msg := sentinel.Message{
			GuildID:     m.GuildID,
			ChannelID:   m.ChannelID,
			MessageID:   m.ID,
			AuthorID:    m.Author.ID,
			AuthorIsBot: m.Author.Bot,
			Content:     m.Content,
		}
		if m.Member != nil {
			msg.AuthorRoles = m.Member.Roles
		}

		go sent.OnMessage(msg)
	})

	s.discord.AddHandler(func(dg *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		if v.GuildID == "" {
			return
		}
		go voiceMgr.OnVoiceStateChanged(v.GuildID)
	})
}
