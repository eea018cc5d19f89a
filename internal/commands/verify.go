package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mizuki1229/Discord-gekou/internal/gate"
)

// handleVerifySetup handles /verify: stores the verification role and
// publishes the confirmation control in the invoking channel. The role id
// rides in the button's custom id, so confirmations need no server-side
// session.
func (h *Handler) handleVerifySetup(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isNativeAdmin(i) {
		return respondEphemeral(s, i, "❌ Administrator permission required.")
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) < 2 {
		return fmt.Errorf("missing options")
	}

	role := opts[0].RoleValue(s, i.GuildID)
	comment := opts[1].StringValue()
	if role == nil {
		return fmt.Errorf("role option missing")
	}

	if err := h.gate.Setup(i.GuildID, role.ID); err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Verification",
		Description: comment,
		Color:       0x00FFCC,
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Verify",
					Style:    discordgo.SuccessButton,
					CustomID: gate.EncodeVerifyID(role.ID),
				},
			},
		},
	}

	if _, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}); err != nil {
		return fmt.Errorf("publish verification control: %w", err)
	}

	return respondEphemeral(s, i, "✅ Verification control published.")
}

// handleVerifyConfirm handles a press of the verification button. Safe to
// repeat: double-clicks report "already verified" instead of erroring or
// granting twice.
func (h *Handler) handleVerifyConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	roleID, err := gate.DecodeVerifyID(customID)
	if err != nil {
		return err
	}

	user := interactionUser(i)
	if user == nil || i.Member == nil {
		return fmt.Errorf("verification pressed outside a guild")
	}

	outcome, err := h.gate.Confirm(i.GuildID, user.ID, roleID, i.Member.Roles)
	if err != nil {
		return err
	}

	switch outcome {
	case gate.AlreadyVerified:
		return respondEphemeral(s, i, "You are already verified.")
	default:
		return respondEphemeral(s, i, "✅ Verification complete.")
	}
}
