package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"venue-backend/config"
	"venue-backend/controllers"
	"venue-backend/models"
	"venue-backend/routes"
	"venue-backend/services"
	"venue-backend/tenant"
)

const testSecret = "velvet-lounge-secret"

// startBackend serves the real API over httptest with an in-memory store.
func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := startBackendDB(t)
	return srv
}

// startBackendDB additionally exposes the store for tests that need to
// plant rows the API would never produce on its own.
func startBackendDB(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	r := routes.SetupRouter(
		controllers.NewStaffController(services.NewStaffService(db)),
		controllers.NewPatronController(services.NewPatronService(db)),
		controllers.NewEarningController(services.NewEarningService(db)),
		controllers.NewBookingController(services.NewBookingService(db)),
		zerolog.Nop(),
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db
}

func testEngine(t *testing.T, baseURL string) *Engine {
	t.Helper()
	e := NewEngine(Config{SyncEnabled: true, BaseURL: baseURL, Secret: testSecret}, zerolog.Nop())
	e.fastInterval = 20 * time.Millisecond
	e.slowInterval = 30 * time.Millisecond
	e.heartbeatInterval = 25 * time.Millisecond
	t.Cleanup(e.Sleep)
	return e
}

func TestWakeWithSyncDisabled(t *testing.T) {
	e := NewEngine(Config{SyncEnabled: false, BaseURL: "http://127.0.0.1:1", Secret: testSecret}, zerolog.Nop())
	require.NoError(t, e.Wake(context.Background()))
	assert.False(t, e.Awake())
}

func TestWakeFailsWhenBackendUnreachable(t *testing.T) {
	srv := startBackend(t)
	srv.Close()

	e := testEngine(t, srv.URL)
	err := e.Wake(context.Background())
	require.Error(t, err)
	assert.False(t, e.Awake())
	assert.False(t, e.Connected())
	assert.Error(t, e.LastError())
}

func TestWakeAndSleepAreIdempotent(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)

	// sleeping while asleep is a no-op
	e.Sleep()
	assert.False(t, e.Awake())

	require.NoError(t, e.Wake(context.Background()))
	require.NoError(t, e.Wake(context.Background()), "second wake is a no-op")
	assert.True(t, e.Awake())

	e.Sleep()
	e.Sleep()
	assert.False(t, e.Awake())
}

func TestWakeDoesInitialFullFetch(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)

	// seed before wake through a second engine's write-through path
	seed := testEngine(t, srv.URL)
	_, err := seed.CreateRoom(context.Background(), models.Room{Name: "Pearl Suite"})
	require.NoError(t, err)
	require.NoError(t, seed.ReplaceMenu(context.Background(), []models.MenuItem{{Name: "Starlight Fizz", Price: 5000}}))

	require.NoError(t, e.Wake(context.Background()))

	// snapshots are populated synchronously by Wake, before any loop ticks
	require.Len(t, e.Rooms(), 1)
	assert.Equal(t, "Pearl Suite", e.Rooms()[0].Name)
	require.Len(t, e.Menu(), 1)
	assert.True(t, e.Connected())
}

func TestFastLoopPicksUpRoomChanges(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	require.NoError(t, e.Wake(context.Background()))
	require.Empty(t, e.Rooms())

	_, err := e.CreateRoom(context.Background(), models.Room{Name: "Lunar Suite"})
	require.NoError(t, err)

	// write-through does not touch the cache; the next poll does
	require.Eventually(t, func() bool {
		return len(e.Rooms()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Lunar Suite", e.Rooms()[0].Name)
}

func TestSlowLoopAppendsLedgerIncrementally(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	require.NoError(t, e.Wake(context.Background()))

	_, err := e.LogEarning(context.Background(), models.Earning{Role: "Bartender", Amount: 1000})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(e.Earnings()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = e.LogEarning(context.Background(), models.Earning{Role: "Dancer", Amount: 2500})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(e.Earnings()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// cursor must not re-fetch already-seen rows on subsequent ticks
	time.Sleep(4 * e.slowInterval)
	assert.Len(t, e.Earnings(), 2)
}

func TestLedgerRowOnCursorTimestampIsNotSkipped(t *testing.T) {
	srv, db := startBackendDB(t)
	e := testEngine(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, e.Wake(ctx))

	_, err := e.LogEarning(ctx, models.Earning{Role: "Bartender", Amount: 1000})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(e.Earnings()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// a row committed after the fetch can share the cursor's exact
	// timestamp; it must still reach the snapshot, exactly once
	late := models.Earning{
		TenantID:  tenant.Resolve(testSecret),
		Role:      "Dancer",
		Amount:    2500,
		CreatedAt: e.Earnings()[0].CreatedAt,
	}
	require.NoError(t, db.Create(&late).Error)

	require.Eventually(t, func() bool {
		return len(e.Earnings()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(4 * e.slowInterval)
	assert.Len(t, e.Earnings(), 2)
}

func TestRepushedCosmeticReplacesCachedEntry(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, e.PushCosmetic(ctx, models.CosmeticSync{CharacterHash: "deadbeefcafe", Data: []byte{1}}))
	require.NoError(t, e.Wake(ctx))
	require.Len(t, e.Cosmetics(), 1)

	// the same character pushes an updated appearance: the backend re-emits
	// the row past the cursor and the cache must swap it in, not append
	require.NoError(t, e.PushCosmetic(ctx, models.CosmeticSync{CharacterHash: "deadbeefcafe", Data: []byte{2}}))

	require.Eventually(t, func() bool {
		blobs := e.Cosmetics()
		return len(blobs) == 1 && bytes.Equal(blobs[0].Data, []byte{2})
	}, 2*time.Second, 10*time.Millisecond)

	// an unseen character still appends
	require.NoError(t, e.PushCosmetic(ctx, models.CosmeticSync{CharacterHash: "beefbeefbeef", Data: []byte{9}}))
	require.Eventually(t, func() bool {
		return len(e.Cosmetics()) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHeartbeatLoopReportsPresence(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	e.SetIdentity(HeartbeatPayload{CharacterName: "Aurelia Nightsong", Role: "Hostess"})
	require.NoError(t, e.Wake(context.Background()))

	require.Eventually(t, func() bool {
		return len(e.OnlineStaff()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Aurelia Nightsong", e.OnlineStaff()[0].CharacterName)
	assert.True(t, e.OnlineStaff()[0].Online)
}

func TestBookingStateConvergesAcrossClients(t *testing.T) {
	srv := startBackend(t)

	writer := testEngine(t, srv.URL)
	reader := testEngine(t, srv.URL)
	require.NoError(t, reader.Wake(context.Background()))

	id := NewBookingID()
	_, err := writer.UpsertBooking(context.Background(), models.Booking{
		ID: id, PatronName: "Lord Percival", Price: 50000, Status: models.BookingActive,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		b := reader.Bookings()
		return len(b) == 1 && b[0].Status == models.BookingActive
	}, 2*time.Second, 10*time.Millisecond)

	_, err = writer.UpsertBooking(context.Background(), models.Booking{
		ID: id, PatronName: "Lord Percival", Price: 50000, Status: models.BookingCompletedPaid,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		b := reader.Bookings()
		return len(b) == 1 && b[0].Status == models.BookingCompletedPaid
	}, 2*time.Second, 10*time.Millisecond)

	// once completed it never reverts
	time.Sleep(3 * reader.slowInterval)
	require.Len(t, reader.Bookings(), 1)
	assert.Equal(t, models.BookingCompletedPaid, reader.Bookings()[0].Status)
}

func TestWriteThroughRoundTrip(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	ctx := context.Background()

	patron, err := e.UpsertPatron(ctx, PatronUpsert{
		Name: "Lord Percival", World: "Balmung", VisitCount: 1,
		Tags: TagsJSON([]string{"big spender"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Balmung", patron.World)

	note, err := e.AddNote(ctx, models.PatronNote{
		PatronName: patron.Name, AuthorName: "Aurelia", Content: "prefers window seats",
	})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)

	require.NoError(t, e.PushCosmetic(ctx, models.CosmeticSync{
		CharacterHash: "deadbeefcafe", Data: []byte{1, 2, 3},
	}))

	_, err = e.LogEarning(ctx, models.Earning{Role: "Hostess", Amount: 12000})
	require.NoError(t, err)
	summary, err := e.EarningsSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.EqualValues(t, 12000, summary[0].Total)

	// DND on someone the backend has never seen is a plain not-found
	err = e.SetDND(ctx, "Nobody", true)
	assert.ErrorIs(t, err, ErrNotFound)

	// everything lands in the snapshots once the engine wakes
	require.NoError(t, e.Wake(ctx))
	require.Len(t, e.Patrons(), 1)
	require.Len(t, e.Notes(), 1)
	require.Len(t, e.Cosmetics(), 1)
	require.Len(t, e.Earnings(), 1)
	e.Sleep()
}

func TestLoopsSurviveBackendOutage(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	require.NoError(t, e.Wake(context.Background()))
	require.True(t, e.Connected())

	srv.CloseClientConnections()
	srv.Close()

	// ticks fail, the engine stays awake and flags the staleness
	require.Eventually(t, func() bool {
		return !e.Connected()
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, e.Awake())
	assert.Error(t, e.LastError())
}

func TestWriteThroughPropagatesFailure(t *testing.T) {
	e := testEngine(t, "http://127.0.0.1:1")
	_, err := e.CreateRoom(context.Background(), models.Room{Name: "Ghost Room"})
	require.Error(t, err)
}

func TestSleepStopsPolling(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	require.NoError(t, e.Wake(context.Background()))
	e.Sleep()

	_, err := e.CreateRoom(context.Background(), models.Room{Name: "Pearl Suite"})
	require.NoError(t, err)

	// no loops are running, so the cache stays as the last snapshot
	time.Sleep(5 * e.fastInterval)
	assert.Empty(t, e.Rooms())
}

func TestLifecycleControllerVisibility(t *testing.T) {
	srv := startBackend(t)
	e := testEngine(t, srv.URL)
	lc := NewLifecycleController(e, zerolog.Nop())

	lc.SetVisible(true)
	require.Eventually(t, e.Awake, 2*time.Second, 10*time.Millisecond)

	lc.SetVisible(false)
	assert.False(t, e.Awake())
}
