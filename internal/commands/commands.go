package commands

import "github.com/bwmarrin/discordgo"

// GetAllCommands returns the application command set.
func GetAllCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "join",
			Description: "Make the bot join your voice channel",
		},
		{
			Name:        "leave",
			Description: "Make the bot leave its voice channel",
		},
		{
			Name:        "verify",
			Description: "Publish a verification control in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "Role granted on verification",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    true,
				},
				{
					Name:        "comment",
					Description: "Text shown in the verification embed",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "exemptrole",
			Description: "Set the role exempt from invite-link moderation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "Role whose members may post invite links",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    true,
				},
			},
		},
		{
			Name:        "ban",
			Description: "Request a ban (confirmed via DM)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to ban",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "setadmin",
			Description: "Grant a user ban authority",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to grant ban authority",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "status",
			Description: "Show bot status and host statistics",
		},
	}
}
