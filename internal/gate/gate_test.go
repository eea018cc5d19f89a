package gate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizuki1229/Discord-gekou/internal/store"
)

type fakeRoles struct {
	existing map[string]bool
	grants   []string
	grantErr error
}

func (f *fakeRoles) RoleExists(guildID, roleID string) bool {
	return f.existing[roleID]
}

func (f *fakeRoles) GrantRole(guildID, userID, roleID string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grants = append(f.grants, guildID+"/"+userID+"/"+roleID)
	return nil
}

func newTestGate(t *testing.T, roles *fakeRoles) *Gate {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "gate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, roles)
}

func TestConfirmGrantsExactlyOnce(t *testing.T) {
	roles := &fakeRoles{existing: map[string]bool{"r1": true}}
	g := newTestGate(t, roles)

	outcome, err := g.Confirm("g1", "u1", "r1", nil)
	require.NoError(t, err)
	assert.Equal(t, Granted, outcome)
	require.Len(t, roles.grants, 1)

	// Second press with the role now held: a no-op, not a second grant.
	outcome, err = g.Confirm("g1", "u1", "r1", []string{"r1"})
	require.NoError(t, err)
	assert.Equal(t, AlreadyVerified, outcome)
	assert.Len(t, roles.grants, 1)
}

func TestConfirmRoleGone(t *testing.T) {
	roles := &fakeRoles{existing: map[string]bool{}}
	g := newTestGate(t, roles)

	_, err := g.Confirm("g1", "u1", "r1", nil)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.Empty(t, roles.grants, "no side effect on missing role")
}

func TestSetupStoresAuthRole(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "gate.db"))
	require.NoError(t, err)
	defer st.Close()

	g := New(st, &fakeRoles{})
	require.NoError(t, g.Setup("g1", "r9"))
	assert.Equal(t, "r9", st.Get("g1").AuthRoleID)
}

func TestVerifyCustomID(t *testing.T) {
	roleID := "123456789012345678"
	id := EncodeVerifyID(roleID)
	assert.True(t, IsVerifyID(id))

	decoded, err := DecodeVerifyID(id)
	require.NoError(t, err)
	assert.Equal(t, roleID, decoded)

	tests := []struct {
		name string
		id   string
	}{
		{name: "wrong prefix", id: "banreq:confirm:xyz"},
		{name: "empty payload", id: "verify:"},
		{name: "non numeric payload", id: "verify:not-a-role"},
		{name: "too short", id: "verify:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeVerifyID(tt.id)
			assert.Error(t, err)
		})
	}
}
