package banflow

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mizuki1229/Discord-gekou/internal/logging"
	"github.com/mizuki1229/Discord-gekou/internal/store"
)

// ConfirmWindow is how long a ban request waits for the requester's
// confirmation before expiring.
const ConfirmWindow = 45 * time.Second

var (
	// ErrPermissionDenied means the requester holds neither native
	// administrator rights nor delegated ban authority.
	ErrPermissionDenied = errors.New("ban authority required")
	// ErrRequestAlreadyPending means the requester already has an
	// unresolved ban request in this guild.
	ErrRequestAlreadyPending = errors.New("a ban request is already awaiting confirmation")
	// ErrNotRequester means someone other than the original requester
	// pressed the confirmation control.
	ErrNotRequester = errors.New("only the requester may resolve this ban request")
	// ErrNoSuchRequest means the request already resolved or expired.
	ErrNoSuchRequest = errors.New("no such pending ban request")
)

// Banner executes the platform ban.
type Banner interface {
	BanMember(guildID, userID, reason string) error
}

// SideChannel is the private, requester-scoped path used for the
// confirmation prompt and the outcome report.
type SideChannel interface {
	// OpenConfirmation delivers the confirm/cancel control to the
	// requester. Failure aborts the request.
	OpenConfirmation(req *Request) error
	// ReportOutcome delivers the terminal outcome. Best-effort: by the
	// time it is called any ban has already been applied.
	ReportOutcome(req *Request, banErr error) error
}

type ownerKey struct {
	guildID     string
	requesterID string
}

// Workflow is the two-step ban confirmation state machine. At most one
// pending request exists per (requester, guild); resolving and expiring are
// mutually exclusive, first to remove the request from the table wins.
type Workflow struct {
	store  *store.Store
	banner Banner
	side   SideChannel
	window time.Duration

	mu      sync.Mutex
	byID    map[string]*Request
	byOwner map[ownerKey]string
}

func New(st *store.Store, banner Banner, side SideChannel) *Workflow {
	return newWorkflow(st, banner, side, ConfirmWindow)
}

func newWorkflow(st *store.Store, banner Banner, side SideChannel, window time.Duration) *Workflow {
	return &Workflow{
		store:   st,
		banner:  banner,
		side:    side,
		window:  window,
		byID:    make(map[string]*Request),
		byOwner: make(map[ownerKey]string),
	}
}

// Request opens a new ban request. requesterIsAdmin carries the platform's
// native administrator flag; delegated authority comes from the config
// store. On success the confirmation control has been delivered over the
// side-channel and the expiry timer is armed.
func (w *Workflow) Request(guildID, requesterID, targetID string, requesterIsAdmin bool) (*Request, error) {
	if !requesterIsAdmin && !w.store.IsAdmin(guildID, requesterID) {
		return nil, ErrPermissionDenied
	}

	now := time.Now()
	req := &Request{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		RequesterID: requesterID,
		TargetID:    targetID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(w.window),
		state:       StateAwaitingConfirmation,
	}

	owner := ownerKey{guildID: guildID, requesterID: requesterID}

	w.mu.Lock()
	if _, pending := w.byOwner[owner]; pending {
		w.mu.Unlock()
		return nil, ErrRequestAlreadyPending
	}
	w.byID[req.ID] = req
	w.byOwner[owner] = req.ID
	w.mu.Unlock()

	// Side-channel delivery does network I/O; the slot above is already
	// reserved so a concurrent duplicate is rejected meanwhile.
	if err := w.side.OpenConfirmation(req); err != nil {
		w.mu.Lock()
		delete(w.byID, req.ID)
		delete(w.byOwner, owner)
		w.mu.Unlock()
		return nil, fmt.Errorf("open confirmation channel: %w", err)
	}

	w.mu.Lock()
	if _, still := w.byID[req.ID]; still {
		req.timer = time.AfterFunc(w.window, func() { w.expire(req.ID) })
	}
	w.mu.Unlock()

	logging.Info("banflow: request %s opened (guild %s, requester %s, target %s)",
		req.ID, guildID, requesterID, targetID)
	return req, nil
}

// take removes a pending request from the table if actorID may resolve it.
// This is the single resolution point shared by confirm, cancel and expiry.
func (w *Workflow) take(requestID, actorID string, checkActor bool, next State) (*Request, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	req, ok := w.byID[requestID]
	if !ok {
		return nil, ErrNoSuchRequest
	}
	if checkActor && actorID != req.RequesterID {
		// State untouched; the request stays pending for its owner.
		return nil, ErrNotRequester
	}

	if req.timer != nil {
		req.timer.Stop()
	}
	delete(w.byID, requestID)
	delete(w.byOwner, ownerKey{guildID: req.GuildID, requesterID: req.RequesterID})
	req.state = next
	return req, nil
}

// Confirm resolves a pending request and executes the ban. The ban is
// applied strictly before the outcome report, so a failed report never
// implies a failed ban.
func (w *Workflow) Confirm(requestID, actorID string) error {
	req, err := w.take(requestID, actorID, true, StateConfirmed)
	if err != nil {
		return err
	}

	banErr := w.banner.BanMember(req.GuildID, req.TargetID,
		fmt.Sprintf("banned by %s via confirmation", req.RequesterID))
	if banErr != nil {
		logging.Error("banflow: request %s ban failed: %v", req.ID, banErr)
	} else {
		logging.Info("banflow: request %s confirmed, %s banned from guild %s",
			req.ID, req.TargetID, req.GuildID)
	}

	if err := w.side.ReportOutcome(req, banErr); err != nil {
		logging.Warn("banflow: request %s outcome report failed: %v", req.ID, err)
	}

	if banErr != nil {
		return fmt.Errorf("ban %s in guild %s: %w", req.TargetID, req.GuildID, banErr)
	}
	return nil
}

// Cancel resolves a pending request without any platform action.
func (w *Workflow) Cancel(requestID, actorID string) error {
	req, err := w.take(requestID, actorID, true, StateCancelled)
	if err != nil {
		return err
	}

	logging.Info("banflow: request %s cancelled by requester", req.ID)
	if err := w.side.ReportOutcome(req, nil); err != nil {
		logging.Warn("banflow: request %s outcome report failed: %v", req.ID, err)
	}
	return nil
}

// expire fires from the request's timer. Losing the race against a
// confirm/cancel simply finds the request gone.
func (w *Workflow) expire(requestID string) {
	req, err := w.take(requestID, "", false, StateExpired)
	if err != nil {
		return
	}

	logging.Info("banflow: request %s expired without confirmation", req.ID)
	if err := w.side.ReportOutcome(req, nil); err != nil {
		logging.Warn("banflow: request %s expiry report failed: %v", req.ID, err)
	}
}

// PendingCount reports how many requests are awaiting confirmation.
func (w *Workflow) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.byID)
}
