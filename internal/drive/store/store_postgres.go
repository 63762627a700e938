package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"placement/internal/drive/models"
	"placement/internal/platform/postgres"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
	"placement/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const driveColumns = `id, recruiter_id, company_name, position, description, salary, location, drive_date,
	deadline, eligibility, status, is_blocked, is_deleted, blocked_by, deleted_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, d *models.Drive) error {
	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO drives (`+driveColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, FALSE, NULL, NULL, $12, $13)`,
		d.ID.String(), d.RecruiterID.String(), d.CompanyName, d.Position, d.Description, d.Salary, d.Location,
		d.DriveDate, d.Deadline, d.Eligibility, string(d.Status), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("drive %s: %w", d.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert drive: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, driveID id.DriveID) (*models.Drive, error) {
	row := tx.Execer(ctx, s.db).QueryRowContext(ctx, `SELECT `+driveColumns+` FROM drives WHERE id = $1`, driveID.String())
	d, err := scanDrive(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("drive %s: %w", driveID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (s *PostgresStore) ListVisible(ctx context.Context) ([]*models.Drive, error) {
	return s.query(ctx, `
		SELECT `+driveColumns+` FROM drives
		WHERE NOT is_blocked AND NOT is_deleted AND status NOT IN ('blocked', 'deleted')
		ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListByRecruiter(ctx context.Context, recruiterID id.RecruiterID) ([]*models.Drive, error) {
	return s.query(ctx, `
		SELECT `+driveColumns+` FROM drives WHERE recruiter_id = $1 ORDER BY created_at DESC`, recruiterID.String())
}

// Execute locks the drive row for the validate-then-mutate window.
func (s *PostgresStore) Execute(ctx context.Context, driveID id.DriveID, validate func(*models.Drive) error, mutate func(*models.Drive)) (*models.Drive, error) {
	var result *models.Drive
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.Execer(ctx, s.db)
		d, err := scanDrive(exec.QueryRowContext(ctx, `SELECT `+driveColumns+` FROM drives WHERE id = $1 FOR UPDATE`, driveID.String()))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("drive %s: %w", driveID, sentinel.ErrNotFound)
			}
			return err
		}
		if err := validate(d); err != nil {
			return err
		}
		mutate(d)

		blockedBy, err := postgres.EncodeModeration(d.BlockedBy)
		if err != nil {
			return err
		}
		deletedBy, err := postgres.EncodeModeration(d.DeletedBy)
		if err != nil {
			return err
		}
		_, err = exec.ExecContext(ctx, `
			UPDATE drives
			SET company_name = $2, position = $3, description = $4, salary = $5, location = $6,
				drive_date = $7, deadline = $8, eligibility = $9, status = $10, is_blocked = $11,
				is_deleted = $12, blocked_by = $13, deleted_by = $14, updated_at = $15
			WHERE id = $1`,
			d.ID.String(), d.CompanyName, d.Position, d.Description, d.Salary, d.Location,
			d.DriveDate, d.Deadline, d.Eligibility, string(d.Status), d.IsBlocked,
			d.IsDeleted, blockedBy, deletedBy, d.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update drive: %w", err)
		}
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Drive, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drives: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Drive, 0)
	for rows.Next() {
		d, err := scanDrive(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drives: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrive(row rowScanner) (*models.Drive, error) {
	var (
		d                          models.Drive
		driveID, recruiterID, stat string
		blockedBy, deletedBy       []byte
	)
	err := row.Scan(&driveID, &recruiterID, &d.CompanyName, &d.Position, &d.Description, &d.Salary, &d.Location,
		&d.DriveDate, &d.Deadline, &d.Eligibility, &stat, &d.IsBlocked, &d.IsDeleted, &blockedBy, &deletedBy,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan drive: %w", err)
	}
	d.ID = id.DriveID(driveID)
	d.RecruiterID = id.RecruiterID(recruiterID)
	d.Status = models.Status(stat)
	if d.BlockedBy, err = postgres.DecodeModeration(blockedBy); err != nil {
		return nil, err
	}
	if d.DeletedBy, err = postgres.DecodeModeration(deletedBy); err != nil {
		return nil, err
	}
	return &d, nil
}
