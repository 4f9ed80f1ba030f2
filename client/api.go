// Package client is the overlay-side sync engine: a typed API client, a
// wake/sleep polling engine that mirrors the backend into in-memory
// snapshots, and a visibility-driven lifecycle controller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"venue-backend/models"
)

// Config is everything the host environment supplies.
type Config struct {
	SyncEnabled bool
	BaseURL     string
	Secret      string
}

const secretHeader = "X-Venue-Secret"

// requestTimeout bounds every outbound call; a timeout is treated like any
// other transient failure.
const requestTimeout = 5 * time.Second

var (
	ErrUnauthorized = errors.New("venue secret rejected")
	ErrNotFound     = errors.New("not found")
)

type apiClient struct {
	base   string
	secret string
	http   *http.Client
}

func newAPIClient(cfg Config) *apiClient {
	return &apiClient{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		secret: cfg.Secret,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

func (a *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, a.secret)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sinceQuery(path string, since time.Time) string {
	if since.IsZero() {
		return path
	}
	q := url.Values{}
	q.Set("since", since.Format(time.RFC3339Nano))
	return path + "?" + q.Encode()
}

// Health hits the unauthenticated liveness probe.
func (a *apiClient) Health(ctx context.Context) error {
	return a.do(ctx, http.MethodGet, "/health", nil, nil)
}

// --- rooms ---

func (a *apiClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := a.do(ctx, http.MethodGet, "/api/rooms", nil, &rooms)
	return rooms, err
}

func (a *apiClient) CreateRoom(ctx context.Context, room models.Room) (models.Room, error) {
	var created models.Room
	err := a.do(ctx, http.MethodPost, "/api/rooms", room, &created)
	return created, err
}

func (a *apiClient) UpdateRoom(ctx context.Context, id uint, fields map[string]interface{}) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/api/rooms/%d", id), fields, nil)
}

func (a *apiClient) DeleteRoom(ctx context.Context, id uint) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", id), nil, nil)
}

// --- staff ---

// HeartbeatPayload identifies the local operator for presence pings.
type HeartbeatPayload struct {
	CharacterName string     `json:"characterName"`
	Role          string     `json:"role,omitempty"`
	ShiftStart    *time.Time `json:"shiftStart,omitempty"`
}

func (a *apiClient) OnlineStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	err := a.do(ctx, http.MethodGet, "/api/staff/online", nil, &staff)
	return staff, err
}

func (a *apiClient) Heartbeat(ctx context.Context, payload HeartbeatPayload) error {
	return a.do(ctx, http.MethodPost, "/api/staff/heartbeat", payload, nil)
}

func (a *apiClient) SetDND(ctx context.Context, characterName string, dnd bool) error {
	body := map[string]interface{}{"characterName": characterName, "dnd": dnd}
	return a.do(ctx, http.MethodPost, "/api/staff/dnd", body, nil)
}

// --- earnings ---

func (a *apiClient) ListEarnings(ctx context.Context, since time.Time) ([]models.Earning, error) {
	var earnings []models.Earning
	err := a.do(ctx, http.MethodGet, sinceQuery("/api/earnings", since), nil, &earnings)
	return earnings, err
}

func (a *apiClient) LogEarning(ctx context.Context, earning models.Earning) (models.Earning, error) {
	var created models.Earning
	err := a.do(ctx, http.MethodPost, "/api/earnings", earning, &created)
	return created, err
}

func (a *apiClient) EarningsSummary(ctx context.Context) ([]models.EarningSummary, error) {
	var summary []models.EarningSummary
	err := a.do(ctx, http.MethodGet, "/api/earnings/summary", nil, &summary)
	return summary, err
}

// --- patrons / notes ---

// PatronUpsert mirrors the backend's merge-upsert payload.
type PatronUpsert struct {
	Name            string          `json:"name"`
	World           string          `json:"world,omitempty"`
	Status          string          `json:"status,omitempty"`
	VisitCount      int             `json:"visitCount,omitempty"`
	LifetimeSpend   int64           `json:"lifetimeSpend,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	BlacklistReason string          `json:"blacklistReason,omitempty"`
	Tags            json.RawMessage `json:"tags,omitempty"`
}

func (a *apiClient) ListPatrons(ctx context.Context) ([]models.Patron, error) {
	var patrons []models.Patron
	err := a.do(ctx, http.MethodGet, "/api/patrons", nil, &patrons)
	return patrons, err
}

func (a *apiClient) UpsertPatron(ctx context.Context, patron PatronUpsert) (models.Patron, error) {
	var merged models.Patron
	err := a.do(ctx, http.MethodPost, "/api/patrons", patron, &merged)
	return merged, err
}

func (a *apiClient) ListNotes(ctx context.Context, since time.Time) ([]models.PatronNote, error) {
	var notes []models.PatronNote
	err := a.do(ctx, http.MethodGet, sinceQuery("/api/notes", since), nil, &notes)
	return notes, err
}

func (a *apiClient) AddNote(ctx context.Context, note models.PatronNote) (models.PatronNote, error) {
	var created models.PatronNote
	err := a.do(ctx, http.MethodPost, "/api/notes", note, &created)
	return created, err
}

// --- menu / gamba presets ---

func (a *apiClient) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := a.do(ctx, http.MethodGet, "/api/menu", nil, &items)
	return items, err
}

func (a *apiClient) ReplaceMenu(ctx context.Context, items []models.MenuItem) ([]models.MenuItem, error) {
	var replaced []models.MenuItem
	err := a.do(ctx, http.MethodPut, "/api/menu", items, &replaced)
	return replaced, err
}

func (a *apiClient) GetGambaPresets(ctx context.Context) ([]models.GambaPreset, error) {
	var presets []models.GambaPreset
	err := a.do(ctx, http.MethodGet, "/api/gamba/presets", nil, &presets)
	return presets, err
}

func (a *apiClient) ReplaceGambaPresets(ctx context.Context, presets []models.GambaPreset) ([]models.GambaPreset, error) {
	var replaced []models.GambaPreset
	err := a.do(ctx, http.MethodPut, "/api/gamba/presets", presets, &replaced)
	return replaced, err
}

// --- cosmetics ---

func (a *apiClient) ListCosmetics(ctx context.Context, since time.Time) ([]models.CosmeticSync, error) {
	var blobs []models.CosmeticSync
	err := a.do(ctx, http.MethodGet, sinceQuery("/api/cosmetics", since), nil, &blobs)
	return blobs, err
}

func (a *apiClient) PushCosmetic(ctx context.Context, blob models.CosmeticSync) error {
	return a.do(ctx, http.MethodPost, "/api/cosmetics", blob, nil)
}

// --- bookings ---

func (a *apiClient) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := a.do(ctx, http.MethodGet, "/api/bookings", nil, &bookings)
	return bookings, err
}

func (a *apiClient) UpsertBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	var saved models.Booking
	err := a.do(ctx, http.MethodPost, "/api/bookings", booking, &saved)
	return saved, err
}

func (a *apiClient) DeleteBooking(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/bookings/"+id, nil, nil)
}
