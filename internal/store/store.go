package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sortable-cli/internal/model"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"
)

var ErrNoSnapshot = errors.New("no snapshot stored")

// Store persists tree snapshots and the log of processed moves in a single
// SQLite file.
type Store struct {
	path string
	db   *sql.DB
}

// Snapshot is one stored tree value. The blob itself is only read on load.
type Snapshot struct {
	ID        int64     `json:"id"`
	Digest    string    `json:"digest"`
	Reason    string    `json:"reason"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: missing path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: the tree has a single writer and :memory: databases are
	// per connection.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	s := &Store{path: path, db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			digest TEXT NOT NULL,
			reason TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			blob BLOB NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS moves (
			id TEXT PRIMARY KEY,
			from_json TEXT NOT NULL,
			to_json TEXT NOT NULL,
			old_index INTEGER NOT NULL,
			new_index INTEGER NOT NULL,
			slot INTEGER NOT NULL,
			source TEXT NOT NULL,
			outcome TEXT NOT NULL,
			error TEXT NOT NULL,
			snapshot_id INTEGER,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_moves_created ON moves(created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot stores tree and returns its metadata.
func (s *Store) SaveSnapshot(ctx context.Context, tree model.Tree, reason string) (Snapshot, error) {
	if tree == nil {
		tree = model.Tree{}
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return Snapshot{}, err
	}
	blob, err := compress(raw)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Digest:    digest(raw),
		Reason:    strings.TrimSpace(reason),
		Nodes:     tree.Count(),
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots(digest, reason, nodes, blob, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		snap.Digest, snap.Reason, snap.Nodes, blob, snap.CreatedAt.UnixMilli())
	if err != nil {
		return Snapshot{}, err
	}
	snap.ID, err = res.LastInsertId()
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Latest returns the most recent snapshot's tree, or ErrNoSnapshot.
func (s *Store) Latest(ctx context.Context) (model.Tree, Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, digest, reason, nodes, blob, created_at_unixms FROM snapshots ORDER BY id DESC LIMIT 1`)
	return scanSnapshot(row)
}

// Load returns the tree stored under id.
func (s *Store) Load(ctx context.Context, id int64) (model.Tree, Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, digest, reason, nodes, blob, created_at_unixms FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (model.Tree, Snapshot, error) {
	var (
		snap Snapshot
		blob []byte
		ms   int64
	)
	if err := row.Scan(&snap.ID, &snap.Digest, &snap.Reason, &snap.Nodes, &blob, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Snapshot{}, ErrNoSnapshot
		}
		return nil, Snapshot{}, err
	}
	snap.CreatedAt = time.UnixMilli(ms).UTC()

	raw, err := decompress(blob)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("snapshot %d: %w", snap.ID, err)
	}
	if got := digest(raw); got != snap.Digest {
		return nil, Snapshot{}, fmt.Errorf("snapshot %d: digest mismatch (stored %s, computed %s)", snap.ID, snap.Digest, got)
	}
	var t model.Tree
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, Snapshot{}, fmt.Errorf("snapshot %d: %w", snap.ID, err)
	}
	if t == nil {
		t = model.Tree{}
	}
	return t, snap, nil
}

// Snapshots lists snapshot metadata, newest first. limit <= 0 means no limit.
func (s *Store) Snapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	q := `SELECT id, digest, reason, nodes, created_at_unixms FROM snapshots ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Snapshot{}
	for rows.Next() {
		var (
			snap Snapshot
			ms   int64
		)
		if err := rows.Scan(&snap.ID, &snap.Digest, &snap.Reason, &snap.Nodes, &ms); err != nil {
			return nil, err
		}
		snap.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

func digest(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(blob []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return raw, nil
}
