package banflow

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizuki1229/Discord-gekou/internal/store"
)

type fakeBanner struct {
	mu     sync.Mutex
	banned []string
	err    error
}

func (f *fakeBanner) BanMember(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.banned = append(f.banned, guildID+"/"+userID)
	return nil
}

func (f *fakeBanner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.banned)
}

type outcome struct {
	state  State
	banErr error
}

type fakeSide struct {
	mu       sync.Mutex
	opened   int
	outcomes []outcome
	openErr  error
}

func (f *fakeSide) OpenConfirmation(req *Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened++
	return nil
}

func (f *fakeSide) ReportOutcome(req *Request, banErr error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome{state: req.State(), banErr: banErr})
	return nil
}

func (f *fakeSide) reported() []outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]outcome, len(f.outcomes))
	copy(out, f.outcomes)
	return out
}

func newTestWorkflow(t *testing.T, window time.Duration) (*Workflow, *store.Store, *fakeBanner, *fakeSide) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "banflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	banner := &fakeBanner{}
	side := &fakeSide{}
	return newWorkflow(st, banner, side, window), st, banner, side
}

func TestConfirmExecutesExactlyOneBan(t *testing.T) {
	w, _, banner, side := newTestWorkflow(t, time.Minute)

	req, err := w.Request("g1", "mod", "target", true)
	require.NoError(t, err)
	assert.Equal(t, 1, side.opened)

	require.NoError(t, w.Confirm(req.ID, "mod"))
	assert.Equal(t, []string{"g1/target"}, banner.banned)
	assert.Equal(t, 0, w.PendingCount())

	reports := side.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, StateConfirmed, reports[0].state)
	assert.NoError(t, reports[0].banErr)

	// Already resolved.
	assert.ErrorIs(t, w.Confirm(req.ID, "mod"), ErrNoSuchRequest)
	assert.Equal(t, 1, banner.count())
}

func TestPermissionDenied(t *testing.T) {
	w, st, banner, side := newTestWorkflow(t, time.Minute)

	_, err := w.Request("g1", "nobody", "target", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 0, side.opened, "no side-channel on denied request")
	assert.Equal(t, 0, w.PendingCount())
	assert.Equal(t, 0, banner.count())

	// Delegated admins pass without the native flag.
	require.NoError(t, st.AddAdmin("g1", "deputy"))
	_, err = w.Request("g1", "deputy", "target", false)
	assert.NoError(t, err)
}

func TestDuplicatePendingRejected(t *testing.T) {
	w, _, _, side := newTestWorkflow(t, time.Minute)

	first, err := w.Request("g1", "mod", "t1", true)
	require.NoError(t, err)

	_, err = w.Request("g1", "mod", "t2", true)
	assert.ErrorIs(t, err, ErrRequestAlreadyPending)
	assert.Equal(t, 1, side.opened, "no second confirmation channel")

	// Same requester in another guild is independent.
	_, err = w.Request("g2", "mod", "t2", true)
	require.NoError(t, err)

	// Resolving frees the slot.
	require.NoError(t, w.Cancel(first.ID, "mod"))
	_, err = w.Request("g1", "mod", "t3", true)
	assert.NoError(t, err)
}

func TestNotRequesterLeavesRequestPending(t *testing.T) {
	w, _, banner, _ := newTestWorkflow(t, time.Minute)

	req, err := w.Request("g1", "mod", "target", true)
	require.NoError(t, err)

	assert.ErrorIs(t, w.Confirm(req.ID, "impostor"), ErrNotRequester)
	assert.ErrorIs(t, w.Cancel(req.ID, "impostor"), ErrNotRequester)
	assert.Equal(t, 0, banner.count())
	assert.Equal(t, 1, w.PendingCount(), "foreign press must not change workflow state")

	// The owner can still resolve it.
	require.NoError(t, w.Confirm(req.ID, "mod"))
	assert.Equal(t, 1, banner.count())
}

func TestCancelTakesNoPlatformAction(t *testing.T) {
	w, _, banner, side := newTestWorkflow(t, time.Minute)

	req, err := w.Request("g1", "mod", "target", true)
	require.NoError(t, err)

	require.NoError(t, w.Cancel(req.ID, "mod"))
	assert.Equal(t, 0, banner.count())

	reports := side.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, StateCancelled, reports[0].state)
}

func TestExpiryPerformsNoBan(t *testing.T) {
	w, _, banner, side := newTestWorkflow(t, 50*time.Millisecond)

	req, err := w.Request("g1", "mod", "target", true)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return w.PendingCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, banner.count())
	reports := side.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, StateExpired, reports[0].state)

	assert.ErrorIs(t, w.Confirm(req.ID, "mod"), ErrNoSuchRequest)
}

func TestConfirmBeatsTimer(t *testing.T) {
	w, _, banner, side := newTestWorkflow(t, 80*time.Millisecond)

	req, err := w.Request("g1", "mod", "target", true)
	require.NoError(t, err)
	require.NoError(t, w.Confirm(req.ID, "mod"))

	// Give a stale timer every chance to misfire.
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, banner.count(), "confirmed request must never also expire")
	reports := side.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, StateConfirmed, reports[0].state)
}

func TestSideChannelFailureFreesTheSlot(t *testing.T) {
	w, _, _, side := newTestWorkflow(t, time.Minute)
	side.openErr = errors.New("DMs closed")

	_, err := w.Request("g1", "mod", "target", true)
	require.Error(t, err)
	assert.Equal(t, 0, w.PendingCount())

	// A retry is possible once delivery works again.
	side.openErr = nil
	_, err = w.Request("g1", "mod", "target", true)
	assert.NoError(t, err)
}

func TestBanFailureIsSurfacedAfterResolution(t *testing.T) {
	w, _, banner, side := newTestWorkflow(t, time.Minute)
	banner.err = errors.New("missing ban permission")

	req, err := w.Request("g1", "mod", "target", true)
	require.NoError(t, err)

	err = w.Confirm(req.ID, "mod")
	require.Error(t, err)
	assert.Equal(t, 0, w.PendingCount(), "request is terminal even when the ban fails")

	reports := side.reported()
	require.Len(t, reports, 1)
	assert.Equal(t, StateConfirmed, reports[0].state)
	assert.Error(t, reports[0].banErr, "outcome report carries the ban failure")
}

func TestControlIDCodec(t *testing.T) {
	confirmID := EncodeConfirmID("req-1")
	cancelID := EncodeCancelID("req-1")

	assert.True(t, IsControlID(confirmID))
	assert.True(t, IsControlID(cancelID))
	assert.False(t, IsControlID("verify:123"))

	id, confirm, err := DecodeControlID(confirmID)
	require.NoError(t, err)
	assert.Equal(t, "req-1", id)
	assert.True(t, confirm)

	id, confirm, err = DecodeControlID(cancelID)
	require.NoError(t, err)
	assert.Equal(t, "req-1", id)
	assert.False(t, confirm)

	_, _, err = DecodeControlID("something else")
	assert.Error(t, err)
}
