// Package sqlite provides a per-world SQLite host implementing the World,
// AttributeStore, TypeStore and AuditLog ports.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository is a world database.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository opens the world database at path.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		// Applied on every pooled connection, unlike a one-off PRAGMA.
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is its own database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors between sessions
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Creatures (the live population of the world)
	CREATE TABLE IF NOT EXISTS creatures (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		type_key TEXT NOT NULL,
		class TEXT NOT NULL,
		rider TEXT NOT NULL DEFAULT '',
		mature INTEGER NOT NULL DEFAULT 1,
		harvest_texture INTEGER NOT NULL DEFAULT 0,
		current_yield INTEGER NOT NULL DEFAULT 0,
		coop INTEGER NOT NULL DEFAULT 0,
		appearance TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Attributes (string bag per creature, plus the @world scope)
	CREATE TABLE IF NOT EXISTS attributes (
		ref TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (ref, key)
	);

	-- Custom creature types
	CREATE TABLE IF NOT EXISTS creature_types (
		key TEXT PRIMARY KEY,
		class TEXT NOT NULL,
		has_juvenile INTEGER NOT NULL DEFAULT 0,
		has_seasonal INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Audit log (tracks operator mutations)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		creature_ref TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_creature ON audit_log(creature_ref);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const creatureColumns = `ref, name, type_key, class, rider, mature, harvest_texture, current_yield, coop`

// AddCreature inserts a creature. An empty Ref is replaced by a new UUID.
func (r *Repository) AddCreature(ctx context.Context, c *entities.Creature) error {
	if c.Ref == "" {
		c.Ref = generateUUID()
	}
	query := `
		INSERT INTO creatures (` + creatureColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.Ref,
		c.Name,
		c.TypeKey,
		string(c.Class),
		c.Rider,
		c.Stage.Mature,
		c.Stage.ShowsHarvestTexture,
		c.Stage.CurrentYield,
		c.Stage.Coop,
		timeNow(),
	)
	if err != nil {
		return fmt.Errorf("saving creature: %w", err)
	}
	return nil
}

// UpdateCreature replaces a creature's rider and life stage.
func (r *Repository) UpdateCreature(ctx context.Context, c *entities.Creature) error {
	query := `
		UPDATE creatures
		SET rider = ?, mature = ?, harvest_texture = ?, current_yield = ?, coop = ?
		WHERE ref = ?
	`
	return r.execOne(ctx, "updating creature", c.Ref, query,
		c.Rider,
		c.Stage.Mature,
		c.Stage.ShowsHarvestTexture,
		c.Stage.CurrentYield,
		c.Stage.Coop,
		c.Ref,
	)
}

// RemoveCreature deletes a creature and its attributes.
func (r *Repository) RemoveCreature(ctx context.Context, ref string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, `DELETE FROM creatures WHERE ref = ?`, ref)
	if err != nil {
		return fmt.Errorf("deleting creature: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("creature not found: %s", ref)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attributes WHERE ref = ?`, ref); err != nil {
		return fmt.Errorf("deleting attributes: %w", err)
	}
	return tx.Commit()
}

// ListCreatures returns every creature in insertion order.
func (r *Repository) ListCreatures(ctx context.Context) ([]entities.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying creatures: %w", err)
	}
	defer rows.Close()

	var creatures []entities.Creature
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, err
		}
		creatures = append(creatures, *c)
	}
	return creatures, rows.Err()
}

// FindCreature finds a creature by ref. Returns nil if not found.
func (r *Repository) FindCreature(ctx context.Context, ref string) (*entities.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures WHERE ref = ?`
	c, err := scanCreature(r.db.QueryRowContext(ctx, query, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// RenameCreature changes a creature's display name.
func (r *Repository) RenameCreature(ctx context.Context, ref, name string) error {
	return r.execOne(ctx, "renaming creature", ref, `UPDATE creatures SET name = ? WHERE ref = ?`, name, ref)
}

// RefreshAppearance records the asset the creature is drawn with.
func (r *Repository) RefreshAppearance(ctx context.Context, ref string, asset entities.AssetHandle) error {
	return r.execOne(ctx, "refreshing appearance", ref, `UPDATE creatures SET appearance = ? WHERE ref = ?`, asset.Path, ref)
}

// Appearance returns the asset path a creature is drawn with, empty for the
// default look.
func (r *Repository) Appearance(ctx context.Context, ref string) (string, error) {
	var path string
	err := r.db.QueryRowContext(ctx, `SELECT appearance FROM creatures WHERE ref = ?`, ref).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("creature not found: %s", ref)
	}
	if err != nil {
		return "", fmt.Errorf("querying appearance: %w", err)
	}
	return path, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreature(row rowScanner) (*entities.Creature, error) {
	var c entities.Creature
	var class string
	err := row.Scan(
		&c.Ref,
		&c.Name,
		&c.TypeKey,
		&class,
		&c.Rider,
		&c.Stage.Mature,
		&c.Stage.ShowsHarvestTexture,
		&c.Stage.CurrentYield,
		&c.Stage.Coop,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning creature: %w", err)
	}
	c.Class = entities.CapabilityClass(class)
	return &c, nil
}

func (r *Repository) execOne(ctx context.Context, op, ref, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: creature not found: %s", op, ref)
	}
	return nil
}

// GetAttribute returns an attribute value and whether it is present.
func (r *Repository) GetAttribute(ctx context.Context, ref, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM attributes WHERE ref = ? AND key = ?`, ref, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying attribute: %w", err)
	}
	return value, true, nil
}

// SetAttribute writes an attribute unconditionally.
func (r *Repository) SetAttribute(ctx context.Context, ref, key, value string) error {
	query := `
		INSERT INTO attributes (ref, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(ref, key) DO UPDATE SET
			value = excluded.value
	`
	if _, err := r.db.ExecContext(ctx, query, ref, key, value); err != nil {
		return fmt.Errorf("saving attribute: %w", err)
	}
	return nil
}

// CompareAndSwapAttribute writes next only if the stored value equals old,
// in a single statement so concurrent sessions on the same file cannot both
// succeed. A missing row compares equal to "".
func (r *Repository) CompareAndSwapAttribute(ctx context.Context, ref, key, old, next string) (bool, error) {
	var result sql.Result
	var err error
	if old == "" {
		query := `
			INSERT INTO attributes (ref, key, value)
			VALUES (?, ?, ?)
			ON CONFLICT(ref, key) DO UPDATE SET
				value = excluded.value
			WHERE attributes.value = ''
		`
		result, err = r.db.ExecContext(ctx, query, ref, key, next)
	} else {
		query := `UPDATE attributes SET value = ? WHERE ref = ? AND key = ? AND value = ?`
		result, err = r.db.ExecContext(ctx, query, next, ref, key, old)
	}
	if err != nil {
		return false, fmt.Errorf("swapping attribute: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("swapping attribute: %w", err)
	}
	return n == 1, nil
}

// SaveCreatureType saves or updates a custom creature type.
func (r *Repository) SaveCreatureType(ctx context.Context, ct *entities.CreatureType) error {
	createdAt := ct.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}
	query := `
		INSERT INTO creature_types (key, class, has_juvenile, has_seasonal, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			class = excluded.class,
			has_juvenile = excluded.has_juvenile,
			has_seasonal = excluded.has_seasonal
	`
	_, err := r.db.ExecContext(ctx, query,
		ct.Key,
		string(ct.Class),
		ct.HasJuvenile,
		ct.HasSeasonal,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("saving creature type: %w", err)
	}
	return nil
}

// ListCreatureTypes lists all custom creature types in creation order.
func (r *Repository) ListCreatureTypes(ctx context.Context) ([]entities.CreatureType, error) {
	query := `
		SELECT key, class, has_juvenile, has_seasonal, created_at
		FROM creature_types
		ORDER BY created_at, key
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying creature types: %w", err)
	}
	defer rows.Close()

	var types []entities.CreatureType
	for rows.Next() {
		var ct entities.CreatureType
		var class string
		if err := rows.Scan(&ct.Key, &class, &ct.HasJuvenile, &ct.HasSeasonal, &ct.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning creature type: %w", err)
		}
		ct.Class = entities.CapabilityClass(class)
		types = append(types, ct)
	}
	return types, rows.Err()
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action, creatureRef string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var refPtr sql.NullString
	if creatureRef != "" {
		refPtr = sql.NullString{String: creatureRef, Valid: true}
	}

	query := `INSERT INTO audit_log (action, creature_ref, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, refPtr, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a creature, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, creatureRef string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, creature_ref, details, created_at
		FROM audit_log
		WHERE creature_ref = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, creatureRef)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var ref, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&ref,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.CreatureRef = ref.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
