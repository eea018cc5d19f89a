package gate

import (
	"errors"
	"fmt"

	"github.com/mizuki1229/Discord-gekou/internal/store"
)

// ErrRoleNotFound indicates the role a verification control points at no
// longer exists in the guild. No side effect was produced.
var ErrRoleNotFound = errors.New("verification role not found")

// Outcome is the terminal result of a confirmation.
type Outcome uint8

const (
	// Granted means the role was issued by this confirmation.
	Granted Outcome = iota
	// AlreadyVerified means the member already held the role; the
	// confirmation was a no-op.
	AlreadyVerified
)

// Roles is the slice of the platform the gate needs: role existence checks
// and role grants.
type Roles interface {
	RoleExists(guildID, roleID string) bool
	GrantRole(guildID, userID, roleID string) error
}

// Gate grants a configured role in response to a user-initiated confirmation.
type Gate struct {
	store *store.Store
	roles Roles
}

func New(st *store.Store, roles Roles) *Gate {
	return &Gate{store: st, roles: roles}
}

// Setup records roleID as the guild's verification role. The caller is
// responsible for publishing the confirmation control carrying
// EncodeVerifyID(roleID).
func (g *Gate) Setup(guildID, roleID string) error {
	if err := g.store.SetAuthRole(guildID, roleID); err != nil {
		return fmt.Errorf("store verification role: %w", err)
	}
	return nil
}

// Confirm handles a verification button press. memberRoles is the invoking
// member's current role set. Safe to repeat: a member who already holds the
// role gets AlreadyVerified and no second grant.
func (g *Gate) Confirm(guildID, userID, roleID string, memberRoles []string) (Outcome, error) {
	if !g.roles.RoleExists(guildID, roleID) {
		return 0, ErrRoleNotFound
	}

	for _, r := range memberRoles {
		if r == roleID {
			return AlreadyVerified, nil
		}
	}

	if err := g.roles.GrantRole(guildID, userID, roleID); err != nil {
		return 0, fmt.Errorf("grant role %s to %s: %w", roleID, userID, err)
	}

	return Granted, nil
}
