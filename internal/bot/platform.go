package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mizuki1229/Discord-gekou/internal/banflow"
	"github.com/mizuki1229/Discord-gekou/internal/dispatcher"
)

// Platform adapts the Discord session (and the REST executor for the
// destructive calls) to the narrow interfaces the moderation components
// consume.
type Platform struct {
	session *Session
	exec    *dispatcher.Executor
}

func NewPlatform(session *Session, exec *dispatcher.Executor) *Platform {
	return &Platform{session: session, exec: exec}
}

// RoleExists checks the guild's live role set, preferring gateway state and
// falling back to a REST fetch when the cache is cold.
func (p *Platform) RoleExists(guildID, roleID string) bool {
	if g, err := p.session.discord.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		for _, r := range g.Roles {
			if r.ID == roleID {
				return true
			}
		}
		return false
	}

	roles, err := p.session.discord.GuildRoles(guildID)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

func (p *Platform) GrantRole(guildID, userID, roleID string) error {
	return p.session.discord.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (p *Platform) DeleteMessage(channelID, messageID string) error {
	return p.session.discord.ChannelMessageDelete(channelID, messageID)
}

func (p *Platform) RestrictMember(guildID, userID string, duration time.Duration, reason string) error {
	return p.exec.RestrictMember(guildID, userID, duration, reason)
}

func (p *Platform) BanMember(guildID, userID, reason string) error {
	return p.exec.BanMember(guildID, userID, reason)
}

func (p *Platform) SendDirectMessage(userID, content string) error {
	ch, err := p.session.discord.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM to %s: %w", userID, err)
	}
	if _, err := p.session.discord.ChannelMessageSend(ch.ID, content); err != nil {
		return fmt.Errorf("send DM to %s: %w", userID, err)
	}
	return nil
}

// OpenConfirmation delivers the ban confirm/cancel control to the requester
// over a DM.
func (p *Platform) OpenConfirmation(req *banflow.Request) error {
	ch, err := p.session.discord.UserChannelCreate(req.RequesterID)
	if err != nil {
		return fmt.Errorf("open DM to %s: %w", req.RequesterID, err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Ban Confirmation",
		Color:       0xED4245,
		Description: fmt.Sprintf("Confirm banning <@%s> from the server.", req.TargetID),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Target",
				Value:  fmt.Sprintf("<@%s> (`%s`)", req.TargetID, req.TargetID),
				Inline: true,
			},
			{
				Name:   "Expires",
				Value:  fmt.Sprintf("<t:%d:R>", req.ExpiresAt.Unix()),
				Inline: true,
			},
		},
		Timestamp: req.CreatedAt.Format(time.RFC3339),
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm Ban",
					Style:    discordgo.DangerButton,
					CustomID: banflow.EncodeConfirmID(req.ID),
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.SecondaryButton,
					CustomID: banflow.EncodeCancelID(req.ID),
				},
			},
		},
	}

	_, err = p.session.discord.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("send confirmation control: %w", err)
	}
	return nil
}

// ReportOutcome tells the requester how the request ended. The ban, if any,
// has already been applied by the time this runs.
func (p *Platform) ReportOutcome(req *banflow.Request, banErr error) error {
	var content string
	switch req.State() {
	case banflow.StateConfirmed:
		if banErr != nil {
			content = fmt.Sprintf("❌ Ban of <@%s> failed: %v", req.TargetID, banErr)
		} else {
			content = fmt.Sprintf("🔨 <@%s> has been banned.", req.TargetID)
		}
	case banflow.StateCancelled:
		content = fmt.Sprintf("Ban of <@%s> cancelled. No action taken.", req.TargetID)
	case banflow.StateExpired:
		content = fmt.Sprintf("Ban request for <@%s> expired without confirmation. No action taken.", req.TargetID)
	default:
		content = fmt.Sprintf("Ban request for <@%s>: %s", req.TargetID, req.State())
	}

	return p.SendDirectMessage(req.RequesterID, content)
}

// JoinChannel connects the bot to a voice channel (muted listener).
func (p *Platform) JoinChannel(guildID, channelID string) error {
	_, err := p.session.discord.ChannelVoiceJoin(guildID, channelID, true, true)
	return err
}

// LeaveChannel tears down the bot's voice session in a guild. Absent
// session is a no-op.
func (p *Platform) LeaveChannel(guildID string) error {
	p.session.discord.RLock()
	vc := p.session.discord.VoiceConnections[guildID]
	p.session.discord.RUnlock()

	if vc == nil {
		return nil
	}
	return vc.Disconnect()
}

// BotChannel returns the channel of the bot's active voice session, if any.
func (p *Platform) BotChannel(guildID string) (string, bool) {
	p.session.discord.RLock()
	vc := p.session.discord.VoiceConnections[guildID]
	p.session.discord.RUnlock()

	if vc == nil || vc.ChannelID == "" {
		return "", false
	}
	return vc.ChannelID, true
}

// NonBotOccupants counts non-bot members currently in the channel, from
// gateway voice state.
func (p *Platform) NonBotOccupants(guildID, channelID string) int {
	g, err := p.session.discord.State.Guild(guildID)
	if err != nil {
		return 0
	}

	count := 0
	for _, vs := range g.VoiceStates {
		if vs.ChannelID != channelID || vs.UserID == p.session.BotID {
			continue
		}
		if member, err := p.session.discord.State.Member(guildID, vs.UserID); err == nil &&
			member.User != nil && member.User.Bot {
			continue
		}
		count++
	}
	return count
}

// UserVoiceChannel finds the voice channel a user currently occupies in a
// guild, for the /join command.
func (p *Platform) UserVoiceChannel(guildID, userID string) (string, bool) {
	g, err := p.session.discord.State.Guild(guildID)
	if err != nil {
		return "", false
	}
	for _, vs := range g.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}
