package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mizuki1229/Discord-gekou/internal/logging"
)

// Session wraps the discordgo gateway session.
type Session struct {
	discord *discordgo.Session
	BotID   string
}

// New creates the Discord session with the intents the moderation engine
// needs: guilds, members, voice states, messages and message content, DMs.
func New(token string) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsDirectMessages

	return &Session{discord: dg}, nil
}

// Discord exposes the underlying discordgo session.
func (s *Session) Discord() *discordgo.Session {
	return s.discord
}

// Connect opens the gateway connection.
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("open Discord connection: %w", err)
	}

	if s.discord.State.User != nil {
		s.BotID = s.discord.State.User.ID
		logging.Info("bot: connected as %s (%s)", s.discord.State.User.Username, s.BotID)
	}

	return nil
}

// Close shuts the gateway connection down.
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// AddHandler registers a gateway event handler.
func (s *Session) AddHandler(handler interface{}) {
	s.discord.AddHandler(handler)
}

// RegisterCommands registers the application commands globally.
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	logging.Info("bot: registering %d slash commands", len(commands))

	for _, cmd := range commands {
		if _, err := s.discord.ApplicationCommandCreate(s.discord.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("register command %s: %w", cmd.Name, err)
		}
		logging.Info("bot: registered /%s", cmd.Name)
	}

	return nil
}
