package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hanbeop/lawdex/internal/models"
)

// SQLiteStore implements StatuteStore on SQLite. Statutes and their articles
// live in separate tables with an explicit position column, so a reload
// returns statutes and articles in exactly the order they were saved.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS statutes (
		position INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT,
		content TEXT,
		keyword TEXT
	);

	CREATE TABLE IF NOT EXISTS articles (
		statute_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		number TEXT NOT NULL,
		heading TEXT,
		body TEXT,
		PRIMARY KEY (statute_position, position),
		FOREIGN KEY (statute_position) REFERENCES statutes(position) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_articles_statute ON articles(statute_position);
	`
	_, err := db.Exec(schema)
	return err
}

// LoadAll returns the full snapshot in saved order. An empty database is the
// normal "no corpus yet" state.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Statute, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, title, url, content, keyword FROM statutes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load statutes: %w", err)
	}
	defer rows.Close()

	statutes := []models.Statute{}
	var positions []int
	for rows.Next() {
		var pos int
		var st models.Statute
		if err := rows.Scan(&pos, &st.Title, &st.URL, &st.Content, &st.Keyword); err != nil {
			return nil, err
		}
		statutes = append(statutes, st)
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, pos := range positions {
		articles, err := s.loadArticles(ctx, pos)
		if err != nil {
			return nil, err
		}
		statutes[i].Articles = articles
	}
	return statutes, nil
}

func (s *SQLiteStore) loadArticles(ctx context.Context, statutePos int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, heading, body FROM articles
		 WHERE statute_position = ? ORDER BY position`, statutePos)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.Number, &a.Heading, &a.Body); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SaveAll replaces the whole snapshot in one transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, statutes []models.Statute) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM articles`); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM statutes`); err != nil {
		return fmt.Errorf("clear statutes: %w", err)
	}

	stStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO statutes (position, title, url, content, keyword) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stStmt.Close()
	artStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (statute_position, position, number, heading, body) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer artStmt.Close()

	for i, st := range statutes {
		if _, err := stStmt.ExecContext(ctx, i, st.Title, st.URL, st.Content, st.Keyword); err != nil {
			return fmt.Errorf("save statute %q: %w", st.Title, err)
		}
		for j, a := range st.Articles {
			if _, err := artStmt.ExecContext(ctx, i, j, a.Number, a.Heading, a.Body); err != nil {
				return fmt.Errorf("save article %s of %q: %w", a.Number, st.Title, err)
			}
		}
	}
	return tx.Commit()
}

// CountStatutes returns the number of stored statutes.
func (s *SQLiteStore) CountStatutes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statutes`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
