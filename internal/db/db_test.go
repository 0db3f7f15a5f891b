package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"mulletclicker/internal/events"
	"mulletclicker/internal/saves"

	"github.com/google/uuid"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM run_badges")
		database.conn.Exec("DELETE FROM runs")
		database.conn.Exec("DELETE FROM journal")
		database.conn.Exec("DELETE FROM kv")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	// A second run skips what is already recorded.
	if err := database.Migrate(); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}

	var recorded int
	database.conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = '001_init.sql'`).Scan(&recorded)
	if recorded != 1 {
		t.Errorf("001_init.sql recorded %d times, want 1", recorded)
	}

	for _, table := range []string{"kv", "journal", "runs", "run_badges"} {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestKV(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	if _, err := database.Get(ctx, "ABCD:save"); !errors.Is(err, saves.ErrNotFound) {
		t.Fatalf("Get() missing = %v, want ErrNotFound", err)
	}

	if err := database.Put(ctx, "ABCD:save", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := database.Put(ctx, "ABCD:save", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put() overwrite error: %v", err)
	}
	got, err := database.Get(ctx, "ABCD:save")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Get() = %s, want {\"v\":2}", got)
	}

	if err := database.Delete(ctx, "ABCD:save"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := database.Get(ctx, "ABCD:save"); !errors.Is(err, saves.ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestSavesStoreOverDB(t *testing.T) {
	database := getTestDB(t)
	store := saves.NewStore(database, "WXYZ:")

	store.SaveGame(saves.Snapshot{Timestamp: time.Now().UnixMilli()})
	if !store.HasSave() {
		t.Fatal("HasSave() = false after SaveGame")
	}
	if _, ok := store.LoadGame(); !ok {
		t.Error("LoadGame() = false after SaveGame")
	}
}

func TestBatchRecordJournal(t *testing.T) {
	database := getTestDB(t)

	sessionID := uuid.New().String()
	now := time.Now()
	entries := []JournalEntry{
		EntryFromEvent(sessionID, "QRST", events.Event{Type: events.TypeClick, Amount: 1}, now),
		EntryFromEvent(sessionID, "QRST", events.Event{Type: events.TypePurchased, UpgradeID: "click_power", Level: 1, Amount: 2}, now),
		EntryFromEvent(sessionID, "QRST", events.Event{Type: events.TypeTargetHit, TargetID: 3, Amount: 150}, now),
	}

	if err := database.BatchRecordJournal(entries); err != nil {
		t.Fatalf("BatchRecordJournal() error: %v", err)
	}

	var count int
	database.conn.QueryRow("SELECT COUNT(*) FROM journal WHERE session_id = $1", sessionID).Scan(&count)
	if count != 3 {
		t.Errorf("journal count = %d, want 3", count)
	}
}

func TestJournalWriter_FlushesOnStop(t *testing.T) {
	database := getTestDB(t)

	w := NewJournalWriter(database)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.Run(stop)
		close(done)
	}()

	sessionID := uuid.New().String()
	for i := 0; i < 5; i++ {
		w.Enqueue(EntryFromEvent(sessionID, "MNOP", events.Event{Type: events.TypeClick, Amount: 1}, time.Now()))
	}
	close(stop)
	<-done

	var count int
	database.conn.QueryRow("SELECT COUNT(*) FROM journal WHERE session_id = $1", sessionID).Scan(&count)
	if count != 5 {
		t.Errorf("journal count = %d, want 5", count)
	}
}

func TestRecordRunAndBadges(t *testing.T) {
	database := getTestDB(t)

	id, err := database.RecordRun(RunRecord{
		SessionID:     uuid.New().String(),
		SessionCode:   "IJKL",
		Variant:       "extended",
		Name:          "Levi",
		Elapsed:       42.5,
		Clicks:        300,
		FinalCurrency: 2010,
	})
	if err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}
	if id == "" {
		t.Fatal("RecordRun() returned empty ID")
	}

	if err := database.AwardBadge(id, "speed_runner"); err != nil {
		t.Fatalf("AwardBadge() error: %v", err)
	}
	if err := database.AwardBadge(id, "speed_runner"); err != nil {
		t.Fatalf("AwardBadge() duplicate error: %v", err)
	}
	badges, err := database.GetRunBadges(id)
	if err != nil {
		t.Fatalf("GetRunBadges() error: %v", err)
	}
	if len(badges) != 1 || badges[0] != "speed_runner" {
		t.Errorf("badges = %v, want [speed_runner]", badges)
	}
}
