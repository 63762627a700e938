package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"placement/internal/account/models"
	"placement/internal/platform/postgres"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
	"placement/pkg/platform/tx"
)

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const studentColumns = `id, name, email, department, is_blocked, blocked_by, unblocked_at, created_at, updated_at`

func (s *PostgresStore) CreateStudent(ctx context.Context, student *models.Student) error {
	blockedBy, err := postgres.EncodeModeration(student.BlockedBy)
	if err != nil {
		return err
	}
	_, err = tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO students (`+studentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		student.ID.String(), student.Name, student.Email, student.Department, student.IsBlocked,
		blockedBy, student.UnblockedAt, student.CreatedAt, student.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("student %s: %w", student.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	row := tx.Execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, studentID.String())
	return scanStudent(row, studentID)
}

// ExecuteStudent locks the row with FOR UPDATE for the validate-then-mutate window.
func (s *PostgresStore) ExecuteStudent(ctx context.Context, studentID id.StudentID, validate func(*models.Student) error, mutate func(*models.Student)) (*models.Student, error) {
	var result *models.Student
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.Execer(ctx, s.db)
		student, err := scanStudent(exec.QueryRowContext(ctx,
			`SELECT `+studentColumns+` FROM students WHERE id = $1 FOR UPDATE`, studentID.String()), studentID)
		if err != nil {
			return err
		}
		if err := validate(student); err != nil {
			return err
		}
		mutate(student)

		blockedBy, err := postgres.EncodeModeration(student.BlockedBy)
		if err != nil {
			return err
		}
		_, err = exec.ExecContext(ctx, `
			UPDATE students
			SET name = $2, email = $3, department = $4, is_blocked = $5, blocked_by = $6,
				unblocked_at = $7, updated_at = $8
			WHERE id = $1`,
			student.ID.String(), student.Name, student.Email, student.Department, student.IsBlocked,
			blockedBy, student.UnblockedAt, student.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		result = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) CreateRecruiter(ctx context.Context, recruiter *models.Recruiter) error {
	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO recruiters (id, name, email, company_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		recruiter.ID.String(), recruiter.Name, recruiter.Email, recruiter.CompanyName, recruiter.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("recruiter %s: %w", recruiter.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert recruiter: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindRecruiter(ctx context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error) {
	var (
		r     models.Recruiter
		rawID string
	)
	err := tx.Execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, name, email, company_name, created_at FROM recruiters WHERE id = $1`,
		recruiterID.String()).Scan(&rawID, &r.Name, &r.Email, &r.CompanyName, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recruiter %s: %w", recruiterID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find recruiter: %w", err)
	}
	r.ID = id.RecruiterID(rawID)
	return &r, nil
}

func scanStudent(row *sql.Row, studentID id.StudentID) (*models.Student, error) {
	var (
		st          models.Student
		rawID       string
		blockedBy   []byte
		unblockedAt sql.NullTime
	)
	err := row.Scan(&rawID, &st.Name, &st.Email, &st.Department, &st.IsBlocked, &blockedBy,
		&unblockedAt, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", studentID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	st.ID = id.StudentID(rawID)
	if unblockedAt.Valid {
		t := unblockedAt.Time
		st.UnblockedAt = &t
	}
	if st.BlockedBy, err = postgres.DecodeModeration(blockedBy); err != nil {
		return nil, err
	}
	return &st, nil
}
