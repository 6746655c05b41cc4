package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/auralabs/aurameter/internal/scoring"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one persisted scoring result. Only derived scores are
// stored; raw measurements and images never reach the database, and the
// subject identifier is kept as a one-way hash.
type Record struct {
	ID          string          `json:"id"`
	SubjectHash string          `json:"subject_hash"`
	Variant     string          `json:"variant"`
	Current     float64         `json:"current"`
	Confidence  string          `json:"confidence"`
	Quality     float64         `json:"quality"`
	Harmony     float64         `json:"harmony"`
	TopLevers   []string        `json:"top_levers"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewRecord builds a record from one scoring output
func NewRecord(subjectID string, variant scoring.Variant, quality float64, out *scoring.Output) *Record {
	levers := make([]string, 0, len(out.TopLevers))
	for _, lv := range out.TopLevers {
		levers = append(levers, string(lv.Key))
	}

	var harmony float64
	if out.Harmony != nil {
		harmony = out.Harmony.Score
	}

	return &Record{
		ID:          uuid.New().String(),
		SubjectHash: HashSubject(subjectID),
		Variant:     string(variant),
		Current:     out.Overall.Current,
		Confidence:  string(out.Overall.Confidence),
		Quality:     quality,
		Harmony:     harmony,
		TopLevers:   levers,
		CreatedAt:   time.Now().UTC(),
	}
}

// HashSubject anonymizes a subject identifier. Empty ids hash to the
// anonymous bucket rather than revealing their absence downstream.
func HashSubject(subjectID string) string {
	if subjectID == "" {
		subjectID = "anonymous"
	}
	sum := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])
}

// Store persists score records in sqlite
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database under dataDir
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "aurameter.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("History store initialized", "path", dbPath)

	return store, nil
}

// NewStoreWithDB wraps an existing connection. Test helper.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS score_records (
			id TEXT PRIMARY KEY,
			subject_hash TEXT NOT NULL,
			variant TEXT NOT NULL,
			current_score REAL NOT NULL,
			confidence TEXT NOT NULL,
			quality REAL NOT NULL,
			harmony REAL NOT NULL,
			top_levers TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_records_subject ON score_records(subject_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_score_records_created ON score_records(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// Save persists one record
func (s *Store) Save(ctx context.Context, rec *Record) error {
	levers, err := json.Marshal(rec.TopLevers)
	if err != nil {
		return fmt.Errorf("failed to encode levers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO score_records (id, subject_hash, variant, current_score, confidence, quality, harmony, top_levers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SubjectHash, rec.Variant, rec.Current, rec.Confidence, rec.Quality, rec.Harmony, string(levers), rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save score record: %w", err)
	}

	return nil
}

// Recent returns the latest records, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject_hash, variant, current_score, confidence, quality, harmony, top_levers, created_at
		FROM score_records
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var levers string
		if err := rows.Scan(&rec.ID, &rec.SubjectHash, &rec.Variant, &rec.Current,
			&rec.Confidence, &rec.Quality, &rec.Harmony, &levers, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		if err := json.Unmarshal([]byte(levers), &rec.TopLevers); err != nil {
			return nil, fmt.Errorf("failed to decode levers: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// SubjectHistory returns the records for one subject, newest first
func (s *Store) SubjectHistory(ctx context.Context, subjectID string, limit int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject_hash, variant, current_score, confidence, quality, harmony, top_levers, created_at
		FROM score_records
		WHERE subject_hash = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, HashSubject(subjectID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var levers string
		if err := rows.Scan(&rec.ID, &rec.SubjectHash, &rec.Variant, &rec.Current,
			&rec.Confidence, &rec.Quality, &rec.Harmony, &levers, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		if err := json.Unmarshal([]byte(levers), &rec.TopLevers); err != nil {
			return nil, fmt.Errorf("failed to decode levers: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// HealthCheck verifies the database connection is alive
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
