package levelstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/delvegen/internal/gamemap"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

var (
	// ErrLevelNotFound is returned when no archived level matches
	ErrLevelNotFound = errors.New("levelstore: level not found")
	// ErrDuplicate is returned when a level with the same layout is already archived
	ErrDuplicate = errors.New("levelstore: level already archived")
)

// Record is one archived level
type Record struct {
	ID          int64
	Depth       int
	Seed        int64
	Name        string
	Width       int
	Height      int
	Fingerprint string
	Map         *gamemap.Map
	Spawns      []mapgen.Spawn
	Entrances   map[string]int
	CreatedAt   time.Time
}

// Save archives a generated level and returns its id. Layouts are unique by
// fingerprint; saving the same layout twice returns ErrDuplicate.
func (s *Store) Save(seed int64, level *mapgen.Level) (int64, error) {
	m := level.Map
	spawns := level.SpawnList
	if spawns == nil {
		spawns = []mapgen.Spawn{}
	}
	spawnsBytes, err := json.Marshal(spawns)
	if err != nil {
		return 0, fmt.Errorf("failed to encode spawns: %w", err)
	}
	entrances := level.Entrances
	if entrances == nil {
		entrances = map[string]int{}
	}
	entrancesBytes, err := json.Marshal(entrances)
	if err != nil {
		return 0, fmt.Errorf("failed to encode entrances: %w", err)
	}

	var startX, startY sql.NullInt64
	if p, ok := level.Start(); ok {
		startX = sql.NullInt64{Int64: int64(p.X), Valid: true}
		startY = sql.NullInt64{Int64: int64(p.Y), Valid: true}
	}

	query := s.dialect.Insert(`
		INSERT INTO levels (depth, seed, name, width, height, fingerprint, tiles, spawns, entrances, start_x, start_y, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{
		m.Depth, seed, m.Name, m.Width, m.Height, m.Fingerprint(),
		strings.Join(m.Rows(), "\n"), string(spawnsBytes), string(entrancesBytes),
		startX, startY, time.Now().UTC(),
	}

	var id int64
	if s.dialect.ReturnsInsertID() {
		err = s.db.QueryRow(query, args...).Scan(&id)
	} else {
		var res sql.Result
		res, err = s.db.Exec(query, args...)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		if s.dialect.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicate, m.Fingerprint())
		}
		return 0, fmt.Errorf("failed to save level: %w", err)
	}
	return id, nil
}

const selectLevel = `
	SELECT id, depth, seed, name, width, height, fingerprint, tiles, spawns, entrances, start_x, start_y, created_at
	FROM levels`

// Get returns the level with the given id
func (s *Store) Get(id int64) (*Record, error) {
	row := s.db.QueryRow(s.dialect.Rebind(selectLevel+` WHERE id = ?`), id)
	return s.scanOne(row)
}

// GetByFingerprint returns the level with the given layout fingerprint
func (s *Store) GetByFingerprint(fingerprint string) (*Record, error) {
	row := s.db.QueryRow(s.dialect.Rebind(selectLevel+` WHERE fingerprint = ?`), fingerprint)
	return s.scanOne(row)
}

// ListByDepth returns every level archived for a depth, oldest first
func (s *Store) ListByDepth(depth int) ([]*Record, error) {
	rows, err := s.db.Query(s.dialect.Rebind(selectLevel+` WHERE depth = ? ORDER BY id ASC`), depth)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes an archived level
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(s.dialect.Rebind(`DELETE FROM levels WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLevelNotFound
	}
	return nil
}

func (s *Store) scanOne(row *sql.Row) (*Record, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLevelNotFound
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec            Record
		tiles          string
		spawns         string
		entrances      string
		startX, startY sql.NullInt64
	)
	err := row.Scan(&rec.ID, &rec.Depth, &rec.Seed, &rec.Name, &rec.Width, &rec.Height,
		&rec.Fingerprint, &tiles, &spawns, &entrances, &startX, &startY, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.Map, err = gamemap.FromRows(rec.Depth, rec.Name, strings.Split(tiles, "\n"))
	if err != nil {
		return nil, fmt.Errorf("level %d has corrupt tiles: %w", rec.ID, err)
	}
	if startX.Valid && startY.Valid {
		rec.Map.SetStart(int(startX.Int64), int(startY.Int64))
	}
	if err := json.Unmarshal([]byte(spawns), &rec.Spawns); err != nil {
		return nil, fmt.Errorf("level %d has corrupt spawns: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(entrances), &rec.Entrances); err != nil {
		return nil, fmt.Errorf("level %d has corrupt entrances: %w", rec.ID, err)
	}
	return &rec, nil
}
