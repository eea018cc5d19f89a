package store

// GuildConfig is the per-guild moderation configuration. One logical record
// per guild; created lazily on first mutation and never deleted.
type GuildConfig struct {
	GuildID            string
	AuthRoleID         string
	InviteExemptRoleID string
	AdminUserIDs       map[string]bool
	WarnCounts         map[string]int
	CreatedAt          int64
	UpdatedAt          int64
}

func newGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:      guildID,
		AdminUserIDs: make(map[string]bool),
		WarnCounts:   make(map[string]int),
	}
}

// IsAdmin reports whether userID holds delegated ban authority in this guild.
func (c *GuildConfig) IsAdmin(userID string) bool {
	return c.AdminUserIDs[userID]
}

// AdminIDs returns the delegated admin set as a slice.
func (c *GuildConfig) AdminIDs() []string {
	ids := make([]string, 0, len(c.AdminUserIDs))
	for id := range c.AdminUserIDs {
		ids = append(ids, id)
	}
	return ids
}
