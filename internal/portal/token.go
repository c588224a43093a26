package portal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenInfo is the resolved view of a share token.
type TokenInfo struct {
	Token           string
	ReportRowID     int64
	ReportID        string
	ClientName      string
	PropertyAddress string
	OutputDir       string
	ExpiresAt       time.Time
}

// ValidateToken resolves a share token to its report. Expired and
// revoked tokens return ErrTokenExpired and ErrTokenRevoked.
func (s *Store) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT t.expires_at, t.revoked_at, r.id, r.report_uuid, r.output_dir,
                c.name, p.address
         FROM tokens t
         JOIN reports r ON r.id = t.report_id
         JOIN clients c ON c.id = r.client_id
         JOIN properties p ON p.id = r.property_id
         WHERE t.token = ?`, token)

	var (
		expiresAt string
		revokedAt sql.NullString
		info      TokenInfo
	)
	err := row.Scan(&expiresAt, &revokedAt, &info.ReportRowID, &info.ReportID,
		&info.OutputDir, &info.ClientName, &info.PropertyAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up token: %w", err)
	}

	if revokedAt.Valid {
		return nil, ErrTokenRevoked
	}
	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse token expiry: %w", err)
	}
	if time.Now().After(expiry) {
		return nil, ErrTokenExpired
	}

	info.Token = token
	info.ExpiresAt = expiry
	return &info, nil
}

// RevokeToken marks a share token unusable. Revoking an already revoked
// token is a no-op; an unknown token is ErrTokenNotFound.
func (s *Store) RevokeToken(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tokens SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL",
		time.Now().UTC().Format(time.RFC3339Nano), token,
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke token result: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM tokens WHERE token = ?", token,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check token: %w", err)
		}
		if exists == 0 {
			return ErrTokenNotFound
		}
	}
	return nil
}

// ReportRow is one registered report as listed by the portal.
type ReportRow struct {
	RowID           int64
	ReportID        string
	ClientName      string
	PropertyAddress string
	InspectionDate  string
	OutputDir       string
	PhotoCount      int
	CriticalCount   int
	CreatedAt       time.Time
}

// Reports lists registered reports, newest first.
func (s *Store) Reports(ctx context.Context) ([]ReportRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.report_uuid, c.name, p.address,
                COALESCE(r.inspection_date, ''), r.output_dir,
                r.photo_count, r.critical_count, r.created_at
         FROM reports r
         JOIN clients c ON c.id = r.client_id
         JOIN properties p ON p.id = r.property_id
         ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		var createdAt string
		if err := rows.Scan(&r.RowID, &r.ReportID, &r.ClientName, &r.PropertyAddress,
			&r.InspectionDate, &r.OutputDir, &r.PhotoCount, &r.CriticalCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = ts
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}
