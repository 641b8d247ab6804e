package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &Cache{writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// the read handle is opened after the schema exists
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			company     TEXT NOT NULL,
			company_key TEXT NOT NULL,
			created_at  DATETIME NOT NULL,
			digest      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_company ON runs(company_key, created_at DESC);

		CREATE TABLE IF NOT EXISTS articles (
			run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			company_key TEXT NOT NULL,
			title       TEXT NOT NULL,
			link        TEXT NOT NULL DEFAULT '',
			summary     TEXT NOT NULL DEFAULT '',
			sentiment   TEXT NOT NULL,
			topics      TEXT NOT NULL DEFAULT '[]',
			fetched_at  DATETIME NOT NULL,
			PRIMARY KEY (run_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_articles_company ON articles(company_key, fetched_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// SaveRun stores a digest and its articles in one transaction and returns
// the run id.
func (c *Cache) SaveRun(d *analysis.Digest, at time.Time) (int64, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("encoding digest: %w", err)
	}
	at = at.UTC()
	key := companyKey(d.Company)

	tx, err := c.writeDB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (company, company_key, created_at, digest) VALUES (?, ?, ?, ?)`,
		d.Company, key, at, string(data))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (run_id, position, company_key, title, link, summary, sentiment, topics, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, a := range d.Articles {
		topics, _ := json.Marshal(a.Topics)
		if _, err := stmt.Exec(runID, i, key, a.Title, a.Link, a.Summary, string(a.Sentiment), string(topics), at); err != nil {
			return 0, fmt.Errorf("inserting article %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// LatestRun returns the newest run for company created within maxAge, or
// nil when there is none.
func (c *Cache) LatestRun(company string, maxAge time.Duration) (*Run, error) {
	since := time.Now().Add(-maxAge).UTC()
	row := c.readDB.QueryRow(`
		SELECT id, company, created_at, digest FROM runs
		WHERE company_key = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC LIMIT 1
	`, companyKey(company), since)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// Runs lists stored runs, newest first.
func (c *Cache) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.readDB.Query(`
		SELECT id, company, created_at, digest FROM runs
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r    Run
		data string
	)
	if err := s.Scan(&r.ID, &r.Company, &r.CreatedAt, &data); err != nil {
		return nil, err
	}
	var d analysis.Digest
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("decoding run %d: %w", r.ID, err)
	}
	r.Digest = &d
	return &r, nil
}

func (c *Cache) GetArticles(opts QueryOpts) ([]Article, error) {
	var (
		where []string
		args  []interface{}
	)

	if opts.Company != "" {
		where = append(where, "a.company_key = ?")
		args = append(args, companyKey(opts.Company))
	}

	if !opts.Since.IsZero() {
		where = append(where, "a.fetched_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	if opts.Sentiment != "" {
		where = append(where, "a.sentiment = ?")
		args = append(args, string(opts.Sentiment))
	}

	if opts.Search != "" {
		where = append(where, "(a.title LIKE ? OR a.summary LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term)
	}

	query := `SELECT a.run_id, r.company, a.title, a.link, a.summary, a.sentiment, a.topics, a.fetched_at
		FROM articles a JOIN runs r ON r.id = a.run_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.fetched_at DESC, a.run_id DESC, a.position ASC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := c.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var (
			a         Article
			sentiment string
			topics    string
		)
		if err := rows.Scan(&a.RunID, &a.Company, &a.Title, &a.Link, &a.Summary, &sentiment, &topics, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.Sentiment = analysis.Sentiment(sentiment)
		if err := json.Unmarshal([]byte(topics), &a.Topics); err != nil {
			return nil, fmt.Errorf("decoding topics: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Prune deletes runs (and their articles) older than retention and returns
// how many runs were removed.
func (c *Cache) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC()

	tx, err := c.writeDB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM articles WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

// Stats reports row counts and the size of the database file at path.
func (c *Cache) Stats(path string) (Stats, error) {
	var s Stats
	err := c.readDB.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT company_key) FROM runs`).Scan(&s.Runs, &s.Companies)
	if err != nil {
		return s, fmt.Errorf("counting runs: %w", err)
	}
	if err := c.readDB.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&s.Articles); err != nil {
		return s, fmt.Errorf("counting articles: %w", err)
	}
	if s.Runs > 0 {
		first, err := c.runTime("ASC")
		if err != nil {
			return s, err
		}
		last, err := c.runTime("DESC")
		if err != nil {
			return s, err
		}
		s.Oldest, s.Newest = first, last
	}
	if fi, err := os.Stat(path); err == nil {
		s.SizeBytes = fi.Size()
	}
	return s, nil
}

func (c *Cache) runTime(order string) (time.Time, error) {
	var t time.Time
	err := c.readDB.QueryRow("SELECT created_at FROM runs ORDER BY created_at " + order + " LIMIT 1").Scan(&t) //nolint:gosec
	if err != nil {
		return t, fmt.Errorf("reading run time: %w", err)
	}
	return t, nil
}
