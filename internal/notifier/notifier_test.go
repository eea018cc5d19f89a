package notifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	delivered []string
	failFor   map[string]bool
}

func (f *fakeSender) SendDirectMessage(userID, content string) error {
	if f.failFor[userID] {
		return errors.New("cannot send messages to this user")
	}
	f.delivered = append(f.delivered, userID)
	return nil
}

func TestNotifyDeliversToAll(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender)

	n.Notify("g1", []string{"a1", "a2", "a3"}, "escalation")
	assert.Equal(t, []string{"a1", "a2", "a3"}, sender.delivered)
}

func TestOneFailureDoesNotStopTheRest(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"a2": true}}
	n := New(sender)

	n.Notify("g1", []string{"a1", "a2", "a3"}, "escalation")
	assert.Equal(t, []string{"a1", "a3"}, sender.delivered)
}

func TestNotifyWithNoAdminsIsANoOp(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender)

	n.Notify("g1", nil, "escalation")
	assert.Empty(t, sender.delivered)
}
