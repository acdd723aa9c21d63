// Package journal persists applied changesets in SQLite so a framework's
// revision history survives the process and can be audited or replayed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/store"

	_ "modernc.org/sqlite"
)

// Journal records one row per revision and one row per status flip.
type Journal struct {
	db      *sql.DB
	session string
}

// Entry is one recorded revision with its flips, in application order.
type Entry struct {
	Session    string
	Revision   uint64
	RecordedAt time.Time
	Facts      []store.ChangedFact
}

// Open opens (or creates) the journal file and migrates the schema. Use
// ":memory:" for an ephemeral journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %q: %w", path, err)
	}
	j := &Journal{db: db, session: uuid.NewString()}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS revisions (
		session TEXT NOT NULL,
		revision INTEGER NOT NULL,
		recorded_at DATETIME NOT NULL,
		PRIMARY KEY (session, revision)
	);
	CREATE TABLE IF NOT EXISTS flips (
		session TEXT NOT NULL,
		revision INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		alive INTEGER NOT NULL,
		PRIMARY KEY (session, revision, seq)
	);`
	_, err := j.db.ExecContext(context.Background(), query)
	return err
}

// Session returns the identifier stamped on this journal's rows.
func (j *Journal) Session() string {
	return j.session
}

// Record persists one changeset atomically. Revisions of redundant
// toggles still get a row, so replay reproduces the revision counter.
func (j *Journal) Record(ctx context.Context, cs *store.Changeset) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	recordedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO revisions (session, revision, recorded_at) VALUES (?, ?, ?)`,
		j.session, cs.Revision, recordedAt,
	); err != nil {
		return fmt.Errorf("failed to insert revision %d: %w", cs.Revision, err)
	}
	for i, fact := range cs.Facts {
		source, target := factColumns(fact)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flips (session, revision, seq, kind, source, target, alive) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			j.session, cs.Revision, i, fact.Kind.String(), source, target, boolInt(fact.Alive),
		); err != nil {
			return fmt.Errorf("failed to insert flip for revision %d: %w", cs.Revision, err)
		}
	}
	return tx.Commit()
}

// Entries returns this session's recorded revisions up to and including
// upTo, with their flips in application order. upTo == 0 means all.
func (j *Journal) Entries(ctx context.Context, upTo uint64) ([]Entry, error) {
	query := `SELECT revision, recorded_at FROM revisions WHERE session = ?`
	args := []any{j.session}
	if upTo > 0 {
		query += ` AND revision <= ?`
		args = append(args, upTo)
	}
	query += ` ORDER BY revision`
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var revision uint64
		var recordedAt string
		if err := rows.Scan(&revision, &recordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Session:    j.session,
			Revision:   revision,
			RecordedAt: parseTime(recordedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		facts, err := j.flips(ctx, entries[i].Revision)
		if err != nil {
			return nil, err
		}
		entries[i].Facts = facts
	}
	return entries, nil
}

func (j *Journal) flips(ctx context.Context, revision uint64) ([]store.ChangedFact, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT kind, source, target, alive FROM flips WHERE session = ? AND revision = ? ORDER BY seq`,
		j.session, revision,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var facts []store.ChangedFact
	for rows.Next() {
		var kind, source, target string
		var alive int
		if err := rows.Scan(&kind, &source, &target, &alive); err != nil {
			return nil, err
		}
		fact := store.ChangedFact{Alive: alive != 0}
		if kind == af.KindAttack.String() {
			fact.Kind = af.KindAttack
			fact.Attack = af.Attack{From: source, To: target}
		} else {
			fact.Kind = af.KindArgument
			fact.Argument = af.Argument{ID: source}
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func factColumns(fact store.ChangedFact) (source, target string) {
	if fact.Kind == af.KindAttack {
		return fact.Attack.From, fact.Attack.To
	}
	return fact.Argument.ID, ""
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
