package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mizuki1229/Discord-gekou/internal/banflow"
	"github.com/mizuki1229/Discord-gekou/internal/bot"
	"github.com/mizuki1229/Discord-gekou/internal/dispatcher"
	"github.com/mizuki1229/Discord-gekou/internal/gate"
	"github.com/mizuki1229/Discord-gekou/internal/logging"
	"github.com/mizuki1229/Discord-gekou/internal/store"
	"github.com/mizuki1229/Discord-gekou/internal/voice"
)

// Handler routes slash commands and component interactions to the
// moderation components.
type Handler struct {
	session  *bot.Session
	platform *bot.Platform
	store    *store.Store
	gate     *gate.Gate
	bans     *banflow.Workflow
	voice    *voice.Manager
	started  time.Time
}

// Initialize wires the handler into the session and registers the command
// set with Discord.
func Initialize(session *bot.Session, platform *bot.Platform, st *store.Store,
	g *gate.Gate, bans *banflow.Workflow, voiceMgr *voice.Manager) (*Handler, error) {

	h := &Handler{
		session:  session,
		platform: platform,
		store:    st,
		gate:     g,
		bans:     bans,
		voice:    voiceMgr,
		started:  time.Now(),
	}

	session.AddHandler(h.handleInteraction)

	commands := GetAllCommands()
	if err := session.RegisterCommands(commands); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}

	logging.Info("commands: handler initialized with %d commands", len(commands))
	return h, nil
}

// handleInteraction dispatches every interaction on its own goroutine. A
// panicking handler still produces a generic failure acknowledgment instead
// of leaving the user without a response.
func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("commands: panic handling interaction: %v", r)
				respondEphemeral(s, i, "❌ An unexpected error occurred.")
			}
		}()

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			h.handleCommand(s, i)
		case discordgo.InteractionMessageComponent:
			h.handleComponent(s, i)
		}
	}()
}

func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name

	var err error
	switch name {
	case "join":
		err = h.handleJoin(s, i)
	case "leave":
		err = h.handleLeave(s, i)
	case "verify":
		err = h.handleVerifySetup(s, i)
	case "exemptrole":
		err = h.handleExemptRole(s, i)
	case "ban":
		err = h.handleBan(s, i)
	case "setadmin":
		err = h.handleSetAdmin(s, i)
	case "status":
		err = h.handleStatus(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", name)
	}

	if err != nil {
		logging.Error("commands: /%s: %v", name, err)
		respondEphemeral(s, i, "❌ "+userFacing(err))
	}
}

func (h *Handler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	var err error
	switch {
	case gate.IsVerifyID(customID):
		err = h.handleVerifyConfirm(s, i, customID)
	case banflow.IsControlID(customID):
		err = h.handleBanControl(s, i, customID)
	default:
		err = fmt.Errorf("unknown component: %s", customID)
	}

	if err != nil {
		logging.Error("commands: component %s: %v", customID, err)
		respondEphemeral(s, i, "❌ "+userFacing(err))
	}
}

// userFacing maps engine errors to the single acknowledgment line shown to
// the invoking user.
func userFacing(err error) string {
	switch {
	case errors.Is(err, banflow.ErrPermissionDenied):
		return "You do not have permission to request bans."
	case errors.Is(err, banflow.ErrRequestAlreadyPending):
		return "You already have a ban request awaiting confirmation. Resolve it first."
	case errors.Is(err, banflow.ErrNotRequester):
		return "Only the requester can resolve this ban request."
	case errors.Is(err, banflow.ErrNoSuchRequest):
		return "This ban request has already been resolved or has expired."
	case errors.Is(err, gate.ErrRoleNotFound):
		return "That role no longer exists."
	case errors.Is(err, store.ErrStorage):
		return "Saving the configuration failed. Please try again."
	case errors.Is(err, dispatcher.ErrActionFailed):
		return "The action could not be completed. Check the bot's permissions."
	default:
		return "An unexpected error occurred."
	}
}

// interactionUser works for both guild interactions (Member set) and DM
// interactions (User set).
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func isNativeAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// ackSilently acknowledges a component press without posting anything; the
// outcome itself arrives through the side-channel report.
func ackSilently(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}
