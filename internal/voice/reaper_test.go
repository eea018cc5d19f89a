package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeController struct {
	channel   string
	occupants int
	leaves    int
	joins     []string
}

func (f *fakeController) JoinChannel(guildID, channelID string) error {
	f.joins = append(f.joins, guildID+"/"+channelID)
	f.channel = channelID
	return nil
}

func (f *fakeController) LeaveChannel(guildID string) error {
	f.leaves++
	f.channel = ""
	return nil
}

func (f *fakeController) BotChannel(guildID string) (string, bool) {
	return f.channel, f.channel != ""
}

func (f *fakeController) NonBotOccupants(guildID, channelID string) int {
	return f.occupants
}

func TestReapWhenBotOnly(t *testing.T) {
	ctrl := &fakeController{channel: "vc1", occupants: 0}
	m := New(ctrl)

	m.OnVoiceStateChanged("g1")
	assert.Equal(t, 1, ctrl.leaves)
}

func TestHumansPresentKeepsSession(t *testing.T) {
	ctrl := &fakeController{channel: "vc1", occupants: 2}
	m := New(ctrl)

	m.OnVoiceStateChanged("g1")
	assert.Equal(t, 0, ctrl.leaves)
}

func TestNoSessionIsANoOp(t *testing.T) {
	ctrl := &fakeController{}
	m := New(ctrl)

	// Redundant invocations against an absent session must not error or
	// attempt a teardown.
	m.OnVoiceStateChanged("g1")
	m.OnVoiceStateChanged("g1")
	assert.Equal(t, 0, ctrl.leaves)
}

func TestReapIsIdempotentAcrossBursts(t *testing.T) {
	ctrl := &fakeController{channel: "vc1", occupants: 0}
	m := New(ctrl)

	m.OnVoiceStateChanged("g1")
	m.OnVoiceStateChanged("g1")
	m.OnVoiceStateChanged("g1")
	assert.Equal(t, 1, ctrl.leaves, "only the first event finds a live session")
}

func TestJoinDelegates(t *testing.T) {
	ctrl := &fakeController{}
	m := New(ctrl)

	assert.NoError(t, m.Join("g1", "vc9"))
	assert.Equal(t, []string{"g1/vc9"}, ctrl.joins)
}
