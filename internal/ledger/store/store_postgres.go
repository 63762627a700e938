package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"placement/internal/ledger/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
	"placement/pkg/platform/tx"
)

// PostgresStore relies on applications_student_drive_key for uniqueness.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const applicationColumns = `student_id, drive_id, recruiter_id, company_name, position, status, applied_at, updated_at`

// GetOrCreate inserts with ON CONFLICT DO NOTHING and falls back to reading the
// row that won, so concurrent callers converge on a single entry.
func (s *PostgresStore) GetOrCreate(ctx context.Context, a *models.Application) (*models.Application, bool, error) {
	exec := tx.Execer(ctx, s.db)
	row := exec.QueryRowContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT applications_student_drive_key DO NOTHING
		RETURNING `+applicationColumns,
		a.StudentID.String(), a.DriveID.String(), a.RecruiterID.String(), a.CompanyName, a.Position,
		string(a.Status), a.AppliedAt, a.UpdatedAt,
	)
	created, err := scanApplication(row)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert application: %w", err)
	}
	existing, err := s.Find(ctx, a.StudentID, a.DriveID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *PostgresStore) Find(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error) {
	row := tx.Execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 AND drive_id = $2`,
		studentID.String(), driveID.String())
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application %s/%s: %w", studentID, driveID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Application, error) {
	return s.query(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE student_id = $1
		ORDER BY applied_at, drive_id`, studentID.String())
}

func (s *PostgresStore) ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Application, error) {
	return s.query(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE drive_id = $1
		ORDER BY applied_at, student_id`, driveID.String())
}

func (s *PostgresStore) Execute(ctx context.Context, studentID id.StudentID, driveID id.DriveID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	var result *models.Application
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.Execer(ctx, s.db)
		a, err := scanApplication(exec.QueryRowContext(ctx, `
			SELECT `+applicationColumns+` FROM applications
			WHERE student_id = $1 AND drive_id = $2 FOR UPDATE`, studentID.String(), driveID.String()))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("application %s/%s: %w", studentID, driveID, sentinel.ErrNotFound)
			}
			return err
		}
		if err := validate(a); err != nil {
			return err
		}
		mutate(a)
		_, err = exec.ExecContext(ctx, `
			UPDATE applications SET status = $3, updated_at = $4
			WHERE student_id = $1 AND drive_id = $2`,
			studentID.String(), driveID.String(), string(a.Status), a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) Delete(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error) {
	row := tx.Execer(ctx, s.db).QueryRowContext(ctx, `
		DELETE FROM applications WHERE student_id = $1 AND drive_id = $2
		RETURNING `+applicationColumns, studentID.String(), driveID.String())
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application %s/%s: %w", studentID, driveID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Application, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		a                               models.Application
		studentID, driveID, recruiterID string
		status                          string
	)
	err := row.Scan(&studentID, &driveID, &recruiterID, &a.CompanyName, &a.Position, &status, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	a.StudentID = id.StudentID(studentID)
	a.DriveID = id.DriveID(driveID)
	a.RecruiterID = id.RecruiterID(recruiterID)
	a.Status = models.Status(status)
	return &a, nil
}
