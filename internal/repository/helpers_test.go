package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"bootcamp-tracker/internal/config"
	"bootcamp-tracker/internal/database"

	"github.com/rs/zerolog"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertPlayer(t *testing.T, db *sql.DB, puuid string, startsAt, plannedEndAt time.Time) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO tracked_players (puuid, game_name, tag_line, region, twitch_login, starts_at, planned_end_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		puuid, "Player", "EUW", "euw1", "", startsAt, plannedEndAt)
	if err != nil {
		t.Fatalf("insert player: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}
