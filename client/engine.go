package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"venue-backend/models"
)

// Default loop cadences. Rooms and presence move fast; the ledger trickles.
const (
	defaultFastInterval      = 3 * time.Second
	defaultSlowInterval      = 30 * time.Second
	defaultHeartbeatInterval = 15 * time.Second
)

// ErrSyncDisabled is recorded when Wake is called with sync turned off.
var ErrSyncDisabled = errors.New("sync disabled in configuration")

// Engine keeps a local mirror of the backend's collections. It has two
// states: asleep (default, no goroutines) and awake (three polling loops
// plus a heartbeat loop). Consumers read whole-snapshot slices that are
// swapped by reference on each successful fetch and never mutated in place.
type Engine struct {
	cfg Config
	api *apiClient
	log zerolog.Logger

	fastInterval      time.Duration
	slowInterval      time.Duration
	heartbeatInterval time.Duration

	// lifecycle state, separate from the cache lock so a slow fetch never
	// blocks Wake/Sleep bookkeeping
	lifecycleMu sync.Mutex
	awake       bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	mu        sync.RWMutex
	rooms     []models.Room
	staff     []models.Staff
	patrons   []models.Patron
	earnings  []models.Earning
	notes     []models.PatronNote
	menu      []models.MenuItem
	presets   []models.GambaPreset
	bookings  []models.Booking
	cosmetics []models.CosmeticSync

	// incremental cursors for the append-only collections
	earningsSince  time.Time
	notesSince     time.Time
	cosmeticsSince time.Time

	connected bool
	lastErr   error

	identity HeartbeatPayload
}

func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:               cfg,
		api:               newAPIClient(cfg),
		log:               logger,
		fastInterval:      defaultFastInterval,
		slowInterval:      defaultSlowInterval,
		heartbeatInterval: defaultHeartbeatInterval,
	}
}

// SetIdentity sets who the heartbeat loop reports as present. Without an
// identity the heartbeat loop idles.
func (e *Engine) SetIdentity(id HeartbeatPayload) {
	e.mu.Lock()
	e.identity = id
	e.mu.Unlock()
}

// Wake transitions Asleep -> Awake: health probe, one blocking full fetch,
// then loop startup. No-op when already awake or when sync is disabled. A
// failed probe or fetch leaves the engine asleep.
func (e *Engine) Wake(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.awake {
		return nil
	}
	if !e.cfg.SyncEnabled {
		e.recordFailure(ErrSyncDisabled)
		return nil
	}

	if err := e.api.Health(ctx); err != nil {
		e.recordFailure(err)
		e.log.Warn().Err(err).Msg("wake aborted: backend unreachable")
		return err
	}

	if err := e.fullFetch(ctx); err != nil {
		e.recordFailure(err)
		e.log.Warn().Err(err).Msg("wake aborted: initial fetch failed")
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.startLoop(loopCtx, "fast", e.fastInterval, e.fastTick)
	e.startLoop(loopCtx, "slow", e.slowInterval, e.slowTick)
	e.startLoop(loopCtx, "heartbeat", e.heartbeatInterval, e.heartbeatTick)
	e.awake = true

	e.log.Info().Msg("sync engine awake")
	return nil
}

// Sleep cancels all loops and returns once they have drained. Idempotent.
func (e *Engine) Sleep() {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if !e.awake {
		return
	}
	e.cancel()
	e.wg.Wait()
	e.cancel = nil
	e.awake = false

	e.log.Info().Msg("sync engine asleep")
}

// Awake reports the current lifecycle state.
func (e *Engine) Awake() bool {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	return e.awake
}

// startLoop runs fn every interval until the context is cancelled. A tick's
// failure is logged and the loop continues; iterations of one loop never
// overlap because the next tick waits for the previous fn to return.
func (e *Engine) startLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					if ctx.Err() != nil {
						return
					}
					e.recordFailure(err)
					e.log.Warn().Str("loop", name).Err(err).Msg("sync tick failed")
				}
			}
		}
	}()
}

func (e *Engine) recordFailure(err error) {
	e.mu.Lock()
	e.connected = false
	e.lastErr = err
	e.mu.Unlock()
}

func (e *Engine) recordSuccess() {
	e.mu.Lock()
	e.connected = true
	e.lastErr = nil
	e.mu.Unlock()
}

// fullFetch loads every collection once, blocking. Used by Wake.
func (e *Engine) fullFetch(ctx context.Context) error {
	if err := e.fastTick(ctx); err != nil {
		return err
	}
	if err := e.refreshConfigLists(ctx); err != nil {
		return err
	}
	return e.slowTick(ctx)
}

// fastTick refreshes the collections the overlay repaints constantly.
func (e *Engine) fastTick(ctx context.Context) error {
	rooms, err := e.api.ListRooms(ctx)
	if err != nil {
		return err
	}
	staff, err := e.api.OnlineStaff(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.rooms = rooms
	e.staff = staff
	e.mu.Unlock()

	e.recordSuccess()
	return nil
}

// slowTick pulls the append-only collections incrementally and refreshes
// patrons and bookings in full. Cursors only advance on success, so a failed
// tick re-requests the same window next time. Each request backs the cursor
// off by a nanosecond: the backend's since filter is strictly greater-than,
// and a row committed after our fetch can land on the exact timestamp we
// cursored to, so the window must straddle the boundary and the merge step
// drops whatever comes back twice.
func (e *Engine) slowTick(ctx context.Context) error {
	e.mu.RLock()
	earningsSince := e.earningsSince
	notesSince := e.notesSince
	cosmeticsSince := e.cosmeticsSince
	e.mu.RUnlock()

	earnings, err := e.api.ListEarnings(ctx, overlapCursor(earningsSince))
	if err != nil {
		return err
	}
	notes, err := e.api.ListNotes(ctx, overlapCursor(notesSince))
	if err != nil {
		return err
	}
	cosmetics, err := e.api.ListCosmetics(ctx, overlapCursor(cosmeticsSince))
	if err != nil {
		return err
	}
	patrons, err := e.api.ListPatrons(ctx)
	if err != nil {
		return err
	}
	bookings, err := e.api.ListBookings(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if len(earnings) > 0 {
		e.earnings = appendNewRows(e.earnings, earnings, func(r models.Earning) uint { return r.ID })
		e.earningsSince = earnings[len(earnings)-1].CreatedAt
	}
	if len(notes) > 0 {
		e.notes = appendNewRows(e.notes, notes, func(n models.PatronNote) uint { return n.ID })
		e.notesSince = notes[len(notes)-1].CreatedAt
	}
	if len(cosmetics) > 0 {
		// cosmetics are mutable: a re-pushed character comes back past the
		// cursor and must replace its old entry, not pile up next to it
		e.cosmetics = mergeCosmetics(e.cosmetics, cosmetics)
		e.cosmeticsSince = cosmetics[len(cosmetics)-1].UpdatedAt
	}
	e.patrons = patrons
	e.bookings = bookings
	e.mu.Unlock()

	e.recordSuccess()
	return nil
}

// overlapCursor widens an incremental fetch window to include the cursor
// timestamp itself. A zero cursor stays zero (full fetch, no since param).
func overlapCursor(cursor time.Time) time.Time {
	if cursor.IsZero() {
		return cursor
	}
	return cursor.Add(-time.Nanosecond)
}

// appendNewRows adds fetched ledger rows to the snapshot, skipping ids the
// snapshot already holds. The overlapping fetch window re-delivers rows on
// the cursor boundary.
func appendNewRows[T any](current, fetched []T, id func(T) uint) []T {
	seen := make(map[uint]struct{}, len(current))
	for _, row := range current {
		seen[id(row)] = struct{}{}
	}
	for _, row := range fetched {
		if _, ok := seen[id(row)]; ok {
			continue
		}
		current = append(current, row)
	}
	return current
}

// mergeCosmetics folds freshly fetched blobs into the snapshot keyed by
// character hash: known characters are replaced in place, unseen ones are
// appended. Returns a new slice so readers holding the previous snapshot
// never observe the rewrite.
func mergeCosmetics(current, fetched []models.CosmeticSync) []models.CosmeticSync {
	merged := make([]models.CosmeticSync, len(current), len(current)+len(fetched))
	copy(merged, current)

	index := make(map[string]int, len(merged))
	for i, blob := range merged {
		index[blob.CharacterHash] = i
	}
	for _, blob := range fetched {
		if i, ok := index[blob.CharacterHash]; ok {
			merged[i] = blob
			continue
		}
		index[blob.CharacterHash] = len(merged)
		merged = append(merged, blob)
	}
	return merged
}

// refreshConfigLists fetches the replace-all list resources. Only run at
// wake and after a local replace; edits are rare.
func (e *Engine) refreshConfigLists(ctx context.Context) error {
	menu, err := e.api.GetMenu(ctx)
	if err != nil {
		return err
	}
	presets, err := e.api.GetGambaPresets(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.menu = menu
	e.presets = presets
	e.mu.Unlock()
	return nil
}

func (e *Engine) heartbeatTick(ctx context.Context) error {
	e.mu.RLock()
	identity := e.identity
	e.mu.RUnlock()

	if identity.CharacterName == "" {
		return nil
	}
	if err := e.api.Heartbeat(ctx, identity); err != nil {
		return err
	}
	e.recordSuccess()
	return nil
}

// --- snapshot accessors ---
// Each returns the last successfully fetched snapshot; callers must not
// mutate the returned slice.

func (e *Engine) Rooms() []models.Room {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rooms
}

func (e *Engine) OnlineStaff() []models.Staff {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.staff
}

func (e *Engine) Patrons() []models.Patron {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.patrons
}

func (e *Engine) Earnings() []models.Earning {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.earnings
}

func (e *Engine) Notes() []models.PatronNote {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.notes
}

func (e *Engine) Menu() []models.MenuItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.menu
}

func (e *Engine) GambaPresets() []models.GambaPreset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.presets
}

func (e *Engine) Bookings() []models.Booking {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bookings
}

func (e *Engine) Cosmetics() []models.CosmeticSync {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cosmetics
}

// Connected is false after any transport failure until the next success;
// the overlay shows cached data with a staleness indicator while false.
func (e *Engine) Connected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

func (e *Engine) LastError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// --- write-through operations ---
// Direct unbuffered calls: no queue, no retry, no local cache mutation.
// The next poll reconciles state from the backend.

func (e *Engine) CreateRoom(ctx context.Context, room models.Room) (models.Room, error) {
	return e.api.CreateRoom(ctx, room)
}

func (e *Engine) UpdateRoom(ctx context.Context, id uint, fields map[string]interface{}) error {
	return e.api.UpdateRoom(ctx, id, fields)
}

func (e *Engine) DeleteRoom(ctx context.Context, id uint) error {
	return e.api.DeleteRoom(ctx, id)
}

func (e *Engine) LogEarning(ctx context.Context, earning models.Earning) (models.Earning, error) {
	return e.api.LogEarning(ctx, earning)
}

func (e *Engine) EarningsSummary(ctx context.Context) ([]models.EarningSummary, error) {
	return e.api.EarningsSummary(ctx)
}

func (e *Engine) UpsertPatron(ctx context.Context, patron PatronUpsert) (models.Patron, error) {
	return e.api.UpsertPatron(ctx, patron)
}

func (e *Engine) AddNote(ctx context.Context, note models.PatronNote) (models.PatronNote, error) {
	return e.api.AddNote(ctx, note)
}

// ReplaceMenu pushes the whole list and refreshes the local copy from the
// response, since the next poll may be half a minute out.
func (e *Engine) ReplaceMenu(ctx context.Context, items []models.MenuItem) error {
	replaced, err := e.api.ReplaceMenu(ctx, items)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.menu = replaced
	e.mu.Unlock()
	return nil
}

func (e *Engine) ReplaceGambaPresets(ctx context.Context, presets []models.GambaPreset) error {
	replaced, err := e.api.ReplaceGambaPresets(ctx, presets)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.presets = replaced
	e.mu.Unlock()
	return nil
}

func (e *Engine) PushCosmetic(ctx context.Context, blob models.CosmeticSync) error {
	return e.api.PushCosmetic(ctx, blob)
}

func (e *Engine) SetDND(ctx context.Context, characterName string, dnd bool) error {
	return e.api.SetDND(ctx, characterName, dnd)
}

func (e *Engine) UpsertBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	return e.api.UpsertBooking(ctx, booking)
}

func (e *Engine) DeleteBooking(ctx context.Context, id string) error {
	return e.api.DeleteBooking(ctx, id)
}

// NewBookingID returns a fresh client-assigned booking id, stable across
// repeated upserts of the same booking.
func NewBookingID() string {
	return uuid.NewString()
}

// TagsJSON is a convenience for building PatronUpsert.Tags.
func TagsJSON(tags []string) json.RawMessage {
	buf, _ := json.Marshal(tags)
	return buf
}
