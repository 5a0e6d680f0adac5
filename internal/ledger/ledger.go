// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of pipeline runs: one row per run
// and one row per paper seen in that run with its score and download path.
// The pipeline only writes to it; nothing reads it back to skip work.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/paperscout/pkg/types"
)

const defaultLimit = 20

// timeFormat is fixed-width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger wraps the history database.
type Ledger struct {
	db *sql.DB
}

// RunInfo describes a run when it starts.
type RunInfo struct {
	Command   string
	Topic     string
	Keywords  []string
	Threshold int
}

// Run is a stored run row.
type Run struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Topic      string    `json:"topic"`
	Keywords   []string  `json:"keywords"`
	Threshold  int       `json:"threshold"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
	Papers     int       `json:"papers"`
}

// Entry is one paper recorded against a run.
type Entry struct {
	Position       int
	Record         types.PaperRecord
	UnscoredReason string
	PDFPath        string
}

// Hit is a paper matched by Search.
type Hit struct {
	RunID          string    `json:"run_id"`
	Position       int       `json:"position"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Score          *int      `json:"score,omitempty"`
	UnscoredReason string    `json:"unscored_reason,omitempty"`
	PDFPath        string    `json:"pdf_path,omitempty"`
	StartedAt      time.Time `json:"started_at"`
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "ledger: creating directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, eris.Wrap(err, "ledger: opening database")
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			topic TEXT,
			keywords TEXT,
			threshold INTEGER,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			title TEXT,
			abstract TEXT,
			url TEXT,
			score INTEGER,
			unscored_reason TEXT,
			pdf_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run_id ON papers(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return eris.Wrap(err, "ledger: creating schema")
		}
	}
	return nil
}

// StartRun inserts a run row and returns its id.
func (l *Ledger) StartRun(ctx context.Context, info RunInfo) (string, error) {
	id := uuid.NewString()
	kw, err := json.Marshal(info.Keywords)
	if err != nil {
		return "", eris.Wrap(err, "ledger: encoding keywords")
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, topic, keywords, threshold, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, info.Command, info.Topic, string(kw), info.Threshold, now())
	if err != nil {
		return "", eris.Wrap(err, "ledger: inserting run")
	}
	return id, nil
}

// RecordPapers stores entries for runID in one transaction.
func (l *Ledger) RecordPapers(ctx context.Context, runID string, entries []Entry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "ledger: begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (run_id, position, title, abstract, url, score, unscored_reason, pdf_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "ledger: preparing insert")
	}
	defer stmt.Close()

	for _, e := range entries {
		var score sql.NullInt64
		if e.Record.Score != nil {
			score = sql.NullInt64{Int64: int64(*e.Record.Score), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, e.Position, e.Record.Title, e.Record.Abstract,
			e.Record.URL, score, nullString(e.UnscoredReason), nullString(e.PDFPath)); err != nil {
			return eris.Wrapf(err, "ledger: inserting paper %d", e.Position)
		}
	}
	return eris.Wrap(tx.Commit(), "ledger: commit")
}

// FinishRun stamps the run's end time and, if runErr is non-nil, its error.
func (l *Ledger) FinishRun(ctx context.Context, runID string, runErr error) error {
	var msg sql.NullString
	if runErr != nil {
		msg = sql.NullString{String: runErr.Error(), Valid: true}
	}
	_, err := l.db.ExecContext(ctx, `UPDATE runs SET finished_at = ?, error = ? WHERE id = ?`, now(), msg, runID)
	return eris.Wrap(err, "ledger: finishing run")
}

// Runs lists the most recent runs, newest first.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT r.id, r.command, r.topic, r.keywords, r.threshold, r.started_at, r.finished_at, r.error,
		       (SELECT count(*) FROM papers p WHERE p.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: querying runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                        Run
			topic, kw, finished, msg sql.NullString
			started                  string
			threshold                sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Command, &topic, &kw, &threshold, &started, &finished, &msg, &r.Papers); err != nil {
			return nil, eris.Wrap(err, "ledger: scanning run")
		}
		r.Topic = topic.String
		r.Threshold = int(threshold.Int64)
		r.Error = msg.String
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		if kw.Valid && kw.String != "" {
			if err := json.Unmarshal([]byte(kw.String), &r.Keywords); err != nil {
				zap.L().Warn("ledger: unreadable keywords", zap.String("run_id", r.ID), zap.Error(err))
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "ledger: iterating runs")
}

// Search returns papers whose title or abstract contains every word of
// query (case-insensitive), newest run first.
func (l *Ledger) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, eris.New("ledger: empty search query")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	var qb strings.Builder
	qb.WriteString(`
		SELECT p.run_id, p.position, p.title, p.url, p.score, p.unscored_reason, p.pdf_path, r.started_at
		FROM papers p JOIN runs r ON r.id = p.run_id
		WHERE 1=1`)
	args := make([]any, 0, 2*len(words)+1)
	for _, w := range words {
		qb.WriteString(` AND (lower(p.title) LIKE ? ESCAPE '\' OR lower(p.abstract) LIKE ? ESCAPE '\')`)
		pat := "%" + likeEscaper.Replace(strings.ToLower(w)) + "%"
		args = append(args, pat, pat)
	}
	qb.WriteString(` ORDER BY r.started_at DESC, p.position ASC, p.id ASC LIMIT ?`)
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: searching papers")
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h               Hit
			score           sql.NullInt64
			reason, pdfPath sql.NullString
			started         string
		)
		if err := rows.Scan(&h.RunID, &h.Position, &h.Title, &h.URL, &score, &reason, &pdfPath, &started); err != nil {
			return nil, eris.Wrap(err, "ledger: scanning paper")
		}
		if score.Valid {
			v := int(score.Int64)
			h.Score = &v
		}
		h.UnscoredReason = reason.String
		h.PDFPath = pdfPath.String
		h.StartedAt = parseTime(started)
		hits = append(hits, h)
	}
	return hits, eris.Wrap(rows.Err(), "ledger: iterating papers")
}

func now() string {
	return time.Now().UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
