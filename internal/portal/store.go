package portal

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fieldlens/internal/config"
	"fieldlens/internal/report"
)

// Token lookup failures.
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenRevoked  = errors.New("token revoked")
)

// Store manages portal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	cfg  *config.Config
	path string
}

// Registration describes a report's portal entry and its share link.
type Registration struct {
	ReportRowID int64
	Token       string
	ShareURL    string
	ExpiresAt   time.Time
}

// RegisterOptions carries the client identity attached to a report.
type RegisterOptions struct {
	ClientName  string
	ClientEmail string
	// TTL overrides the configured token lifetime when positive.
	TTL time.Duration
}

// Open initializes or connects to the portal database at the configured
// path and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.Portal.DBPath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure portal db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, cfg: cfg, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Health verifies the database connection is usable.
func (s *Store) Health(ctx context.Context) error {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.db.PingContext(connCtx); err != nil {
		return fmt.Errorf("ping portal db: %w", err)
	}
	return nil
}

// Register records the finished report and mints a fresh view token for
// it. Clients are matched by email when present, otherwise by name;
// properties are matched by address within the client. Registering the
// same report id again replaces its row and issues a new token.
func (s *Store) Register(ctx context.Context, doc *report.Document, outputDir string, opts RegisterOptions) (*Registration, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}
	clientName := strings.TrimSpace(opts.ClientName)
	if clientName == "" {
		clientName = strings.TrimSpace(doc.ClientName)
	}
	if clientName == "" {
		clientName = "Unassigned"
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Duration(s.cfg.Portal.TokenTTLHours) * time.Hour
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	clientID, err := upsertClient(ctx, tx, clientName, strings.TrimSpace(opts.ClientEmail), timestamp)
	if err != nil {
		return nil, err
	}
	propertyID, err := upsertProperty(ctx, tx, clientID, doc.PropertyAddress, timestamp)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (
            report_uuid, client_id, property_id, inspection_date, output_dir,
            photo_count, critical_count, important_count, minor_count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(report_uuid) DO UPDATE SET
            client_id = excluded.client_id,
            property_id = excluded.property_id,
            inspection_date = excluded.inspection_date,
            output_dir = excluded.output_dir,
            photo_count = excluded.photo_count,
            critical_count = excluded.critical_count,
            important_count = excluded.important_count,
            minor_count = excluded.minor_count`,
		doc.ReportID, clientID, propertyID,
		nullableString(doc.InspectionDate), outputDir,
		doc.Statistics.TotalPhotos, doc.Statistics.CriticalCount,
		doc.Statistics.ImportantCount, doc.Statistics.MinorCount,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	// LastInsertId is unreliable on the conflict path; resolve by uuid.
	var reportRowID int64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM reports WHERE report_uuid = ?", doc.ReportID,
	).Scan(&reportRowID); err != nil {
		return nil, fmt.Errorf("resolve report row: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(ttl)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tokens (report_id, token, kind, created_at, expires_at)
         VALUES (?, ?, 'view', ?, ?)`,
		reportRowID, token, timestamp, expiresAt.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register: %w", err)
	}

	return &Registration{
		ReportRowID: reportRowID,
		Token:       token,
		ShareURL:    s.cfg.ShareURL(token),
		ExpiresAt:   expiresAt,
	}, nil
}

func upsertClient(ctx context.Context, tx *sql.Tx, name, email, timestamp string) (int64, error) {
	var id int64
	var err error
	if email != "" {
		err = tx.QueryRowContext(ctx, "SELECT id FROM clients WHERE email = ?", email).Scan(&id)
	} else {
		err = tx.QueryRowContext(ctx, "SELECT id FROM clients WHERE name = ? AND email IS NULL", name).Scan(&id)
	}
	if err == nil {
		if email != "" {
			if _, err := tx.ExecContext(ctx, "UPDATE clients SET name = ? WHERE id = ?", name, id); err != nil {
				return 0, fmt.Errorf("refresh client name: %w", err)
			}
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find client: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO clients (name, email, created_at) VALUES (?, ?, ?)",
		name, nullableString(email), timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert client: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("client insert id: %w", err)
	}
	return id, nil
}

func upsertProperty(ctx context.Context, tx *sql.Tx, clientID int64, address, timestamp string) (int64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		address = "Unknown address"
	}
	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM properties WHERE client_id = ? AND address = ?", clientID, address,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find property: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO properties (client_id, address, created_at) VALUES (?, ?, ?)",
		clientID, address, timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert property: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("property insert id: %w", err)
	}
	return id, nil
}

// newToken returns 32 hex characters of cryptographic randomness.
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
