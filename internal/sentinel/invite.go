package sentinel

import "regexp"

// Matches discord.gg/<code>, discord.com/invite/<code> and
// discordapp.com/invite/<code> anywhere in the message, case-insensitively.
var invitePattern = regexp.MustCompile(`(?i)(?:discord\.gg|discord(?:app)?\.com/invite)/[a-zA-Z0-9-]+`)

// ContainsInvite reports whether content carries a guild invite link.
func ContainsInvite(content string) bool {
	return invitePattern.MatchString(content)
}
