package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/model"
	"sortable-cli/internal/reorder"

	"github.com/google/uuid"
)

// MoveRecord is one entry of the move log. Rejected moves are logged too, with
// their error and no snapshot.
type MoveRecord struct {
	ID         string     `json:"id"`
	From       model.Path `json:"from"`
	To         model.Path `json:"to"`
	OldIndex   int        `json:"oldIndex"`
	NewIndex   int        `json:"newIndex"`
	Slot       bool       `json:"slot,omitempty"`
	Source     string     `json:"source"`
	Outcome    string     `json:"outcome"`
	Error      string     `json:"error,omitempty"`
	SnapshotID *int64     `json:"snapshotId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (s *Store) AppendMove(ctx context.Context, rec MoveRecord) (MoveRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.From == nil {
		rec.From = model.Path{}
	}
	if rec.To == nil {
		rec.To = model.Path{}
	}
	fromJSON, _ := json.Marshal(rec.From)
	toJSON, _ := json.Marshal(rec.To)
	var snap any
	if rec.SnapshotID != nil {
		snap = *rec.SnapshotID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO moves(id, from_json, to_json, old_index, new_index, slot, source, outcome, error, snapshot_id, created_at_unixms)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(fromJSON), string(toJSON), rec.OldIndex, rec.NewIndex, boolToInt(rec.Slot),
		strings.TrimSpace(rec.Source), rec.Outcome, rec.Error, snap, rec.CreatedAt.UnixMilli())
	if err != nil {
		return MoveRecord{}, err
	}
	return rec, nil
}

// Moves lists logged moves, newest first. limit <= 0 means no limit.
func (s *Store) Moves(ctx context.Context, limit int) ([]MoveRecord, error) {
	q := `SELECT id, from_json, to_json, old_index, new_index, slot, source, outcome, error, snapshot_id, created_at_unixms
		FROM moves ORDER BY created_at_unixms DESC, rowid DESC`
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

	out := []MoveRecord{}
	for rows.Next() {
		var (
			rec      MoveRecord
			fromJSON string
			toJSON   string
			slot     int
			snap     *int64
			ms       int64
		)
		if err := rows.Scan(&rec.ID, &fromJSON, &toJSON, &rec.OldIndex, &rec.NewIndex, &slot,
			&rec.Source, &rec.Outcome, &rec.Error, &snap, &ms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fromJSON), &rec.From); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(toJSON), &rec.To); err != nil {
			return nil, err
		}
		rec.Slot = slot != 0
		rec.SnapshotID = snap
		rec.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Observer returns a bridge observer that persists every change: replacements
// and applied moves become snapshots, and every move attempt is logged. The
// mounted value is already stored, so mounts are skipped. Write failures are
// logged; they never reach the bridge.
func (s *Store) Observer(ctx context.Context, source string, log *slog.Logger) func(bridge.Change) {
	if log == nil {
		log = slog.Default()
	}
	return func(c bridge.Change) {
		var snapID *int64
		switch c.Kind {
		case bridge.ChangeMount:
			return
		case bridge.ChangeReplace, bridge.ChangeMove:
			snap, err := s.SaveSnapshot(ctx, c.Tree, source+":"+string(c.Kind))
			if err != nil {
				log.Error("failed to save snapshot", "kind", string(c.Kind), "error", err)
				return
			}
			snapID = &snap.ID
		}
		if c.Move == nil {
			return
		}
		rec := moveRecord(*c.Move, source)
		rec.SnapshotID = snapID
		rec.Outcome = "applied"
		if c.Err != nil {
			rec.Outcome = "rejected"
			rec.Error = c.Err.Error()
		}
		if _, err := s.AppendMove(ctx, rec); err != nil {
			log.Error("failed to log move", "move", c.Move.String(), "error", err)
		}
	}
}

func moveRecord(mv reorder.Move, source string) MoveRecord {
	return MoveRecord{
		From:     mv.From,
		To:       mv.To,
		OldIndex: mv.OldIndex,
		NewIndex: mv.NewIndex,
		Slot:     mv.Slot,
		Source:   source,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
