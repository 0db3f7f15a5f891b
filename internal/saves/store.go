package saves

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"mulletclicker/internal/leaderboard"
	"mulletclicker/internal/players"
)

const (
	Version        = "1.0.0"
	LeaderboardKey = "leaderboard"
)

// Snapshot is the persisted game save.
type Snapshot struct {
	Player    players.Snapshot `json:"player"`
	Timestamp int64            `json:"timestamp"` // unix milliseconds
	Version   string           `json:"version"`
}

// Store reads and writes game saves and the leaderboard through a KV.
// Writes never fail from the caller's point of view; errors are logged.
type Store struct {
	kv      KV
	saveKey string
	timeout time.Duration
}

// NewStore scopes the save key with prefix so sessions sharing a KV keep
// separate saves. The leaderboard key is shared.
func NewStore(kv KV, prefix string) *Store {
	return &Store{
		kv:      kv,
		saveKey: prefix + "save",
		timeout: 5 * time.Second,
	}
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) SaveGame(snap Snapshot) {
	if snap.Version == "" {
		snap.Version = Version
	}
	b, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[Save] Marshal error: %v\n", err)
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.kv.Put(ctx, s.saveKey, b); err != nil {
		log.Printf("[Save] Put %s error: %v\n", s.saveKey, err)
	}
}

// LoadGame returns the stored save. Missing or malformed data reports false.
func (s *Store) LoadGame() (Snapshot, bool) {
	ctx, cancel := s.ctx()
	defer cancel()
	b, err := s.kv.Get(ctx, s.saveKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[Save] Get %s error: %v\n", s.saveKey, err)
		}
		return Snapshot{}, false
	}
	return decodeSnapshot(b)
}

func decodeSnapshot(b []byte) (Snapshot, bool) {
	var raw struct {
		Player    json.RawMessage `json:"player"`
		Timestamp int64           `json:"timestamp"`
		Version   string          `json:"version"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Snapshot{}, false
	}
	if len(raw.Player) == 0 || bytes.Equal(raw.Player, []byte("null")) {
		return Snapshot{}, false
	}
	// Absent fields keep the values of a fresh player.
	ps := players.New().Snapshot()
	if err := json.Unmarshal(raw.Player, &ps); err != nil {
		return Snapshot{}, false
	}
	return Snapshot{Player: ps, Timestamp: raw.Timestamp, Version: raw.Version}, true
}

func (s *Store) HasSave() bool {
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.kv.Get(ctx, s.saveKey)
	return err == nil
}

func (s *Store) DeleteSave() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.kv.Delete(ctx, s.saveKey)
}

// SaveTimestamp returns when the stored save was written.
func (s *Store) SaveTimestamp() (time.Time, bool) {
	snap, ok := s.LoadGame()
	if !ok || snap.Timestamp == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(snap.Timestamp), true
}

func (s *Store) SaveLeaderboard(entries []leaderboard.Entry) {
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		log.Printf("[Save] Marshal leaderboard error: %v\n", err)
		return
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.kv.Put(ctx, LeaderboardKey, b); err != nil {
		log.Printf("[Save] Put leaderboard error: %v\n", err)
	}
}

// LoadLeaderboard returns the stored entries, or nil when absent or malformed.
func (s *Store) LoadLeaderboard() []leaderboard.Entry {
	ctx, cancel := s.ctx()
	defer cancel()
	b, err := s.kv.Get(ctx, LeaderboardKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[Save] Get leaderboard error: %v\n", err)
		}
		return nil
	}
	var entries []leaderboard.Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		log.Printf("[Save] Discarding malformed leaderboard: %v\n", err)
		return nil
	}
	return entries
}
