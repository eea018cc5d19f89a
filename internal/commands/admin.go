package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// handleSetAdmin handles /setadmin: grants a user delegated ban authority.
// Only platform-native administrators may grant it.
func (h *Handler) handleSetAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isNativeAdmin(i) {
		return respondEphemeral(s, i, "❌ Administrator permission required.")
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) < 1 {
		return fmt.Errorf("missing user option")
	}
	user := opts[0].UserValue(s)
	if user == nil {
		return fmt.Errorf("user option missing")
	}

	if err := h.store.AddAdmin(i.GuildID, user.ID); err != nil {
		return err
	}

	return respondEphemeral(s, i, fmt.Sprintf("✅ **%s** can now request bans.", user.Username))
}

// handleExemptRole handles /exemptrole: sets the role whose members may
// post invite links. Configuring it arms the invite-spam sentinel for the
// guild.
func (h *Handler) handleExemptRole(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isNativeAdmin(i) {
		return respondEphemeral(s, i, "❌ Administrator permission required.")
	}

	opts := i.ApplicationCommandData().Options
	if len(opts) < 1 {
		return fmt.Errorf("missing role option")
	}
	role := opts[0].RoleValue(s, i.GuildID)
	if role == nil {
		return fmt.Errorf("role option missing")
	}

	if err := h.store.SetExemptRole(i.GuildID, role.ID); err != nil {
		return err
	}

	return respondEphemeral(s, i, fmt.Sprintf(
		"✅ Invite-link moderation armed. Members with **%s** are exempt.", role.Name))
}
