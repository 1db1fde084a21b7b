package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/splice/internal/codec"
	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/schema"
)

// ErrNotFound is returned when no snapshot matches a reference.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored document.
type Snapshot struct {
	ID     string `json:"id"`
	Seq    int64  `json:"seq"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Digest string `json:"digest"`

	// Document is the JSON encoding of the composition. List leaves it
	// empty.
	Document []byte `json:"-"`
}

// Composition decodes the stored document.
func (s Snapshot) Composition() (schema.Composition, error) {
	if len(s.Document) == 0 {
		return nil, fmt.Errorf("snapshot %s: document not loaded", s.ID)
	}
	return codec.Unmarshal(s.Document, codec.FormatJSON)
}

// Save stores doc under name. When a snapshot with identical content
// exists it is returned unchanged and created is false; the new name is
// not applied.
func (s *Store) Save(ctx context.Context, name string, doc schema.Composition) (snap Snapshot, created bool, err error) {
	data, err := codec.Marshal(doc, codec.FormatJSON)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	digest, err := meta.DocumentDigest(data)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	existing, err := s.byDigest(ctx, digest)
	if err == nil {
		s.logger.Debug("snapshot exists", "id", existing.ID, "digest", digest)
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	snap = Snapshot{
		ID:       s.ids.Generate(),
		Seq:      s.clock.next(),
		Name:     name,
		Kind:     string(doc.Kind()),
		Digest:   digest,
		Document: data,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, seq, name, kind, digest, document)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Seq, snap.Name, snap.Kind, snap.Digest, snap.Document)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info("snapshot saved", "id", snap.ID, "name", name, "seq", snap.Seq)
	return snap, true, nil
}

// Get returns the snapshot whose ID or digest equals ref.
func (s *Store) Get(ctx context.Context, ref string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, name, kind, digest, document
		FROM snapshots
		WHERE id = ? OR digest = ?
		ORDER BY seq ASC, id ASC COLLATE BINARY
		LIMIT 1
	`, ref, ref)
	snap, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %s: %w", ref, err)
	}
	return snap, nil
}

// Load is Get followed by decoding the document.
func (s *Store) Load(ctx context.Context, ref string) (schema.Composition, error) {
	snap, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return snap.Composition()
}

// List returns every snapshot in save order, without documents.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, name, kind, digest
		FROM snapshots
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Seq, &snap.Name, &snap.Kind, &snap.Digest); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete snapshot %s: %w", id, ErrNotFound)
	}
	s.logger.Info("snapshot deleted", "id", id)
	return nil
}

func (s *Store) byDigest(ctx context.Context, digest string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, name, kind, digest, document
		FROM snapshots
		WHERE digest = ?
	`, digest)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Seq, &snap.Name, &snap.Kind, &snap.Digest, &snap.Document)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
