package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mizuki1229/Discord-gekou/internal/banflow"
)

// handleBan handles /ban: opens a ban request whose destructive action is
// gated behind a second confirmation delivered over DM.
func (h *Handler) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options
	if len(opts) < 1 {
		return fmt.Errorf("missing user option")
	}
	target := opts[0].UserValue(s)
	if target == nil {
		return fmt.Errorf("user option missing")
	}

	requester := interactionUser(i)
	if requester == nil {
		return fmt.Errorf("no invoking user on interaction")
	}

	req, err := h.bans.Request(i.GuildID, requester.ID, target.ID, isNativeAdmin(i))
	if err != nil {
		return err
	}

	return respondEphemeral(s, i, fmt.Sprintf(
		"📨 Check your DMs to confirm the ban of **%s** (expires <t:%d:R>).",
		target.Username, req.ExpiresAt.Unix()))
}

// handleBanControl handles the confirm/cancel buttons on the DM control.
// The button press itself is acknowledged silently; the outcome arrives as
// the side-channel report.
func (h *Handler) handleBanControl(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	requestID, confirm, err := banflow.DecodeControlID(customID)
	if err != nil {
		return err
	}

	actor := interactionUser(i)
	if actor == nil {
		return fmt.Errorf("no invoking user on interaction")
	}

	if confirm {
		err = h.bans.Confirm(requestID, actor.ID)
	} else {
		err = h.bans.Cancel(requestID, actor.ID)
	}
	if err != nil {
		return err
	}

	return ackSilently(s, i)
}
