package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"placement/internal/platform/postgres"
	"placement/internal/schedule/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
	"placement/pkg/platform/tx"
)

// PostgresStore keeps the schedule row and its roster rows in separate tables.
// Every read assembles the aggregate; every Execute rewrites it in one transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const scheduleColumns = `id, drive_id, recruiter_id, interview_date, interview_time, venue, rounds, status,
	is_blocked, is_cancelled, blocked_by, created_at, updated_at`

const candidateColumns = `schedule_id, student_id, name, email, status, feedback_notes, score, added_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, sch *models.Schedule) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		rounds, err := json.Marshal(sch.Rounds)
		if err != nil {
			return fmt.Errorf("encode rounds: %w", err)
		}
		_, err = tx.Execer(ctx, s.db).ExecContext(ctx, `
			INSERT INTO schedules (`+scheduleColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, NULL, $9, $10)`,
			sch.ID.String(), sch.DriveID.String(), sch.RecruiterID.String(), sch.Date, sch.Time, sch.Venue,
			rounds, string(sch.Status), sch.CreatedAt, sch.UpdatedAt,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return fmt.Errorf("schedule %s: %w", sch.ID, sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("insert schedule: %w", err)
		}
		return s.upsertCandidates(ctx, sch)
	})
}

func (s *PostgresStore) FindByID(ctx context.Context, scheduleID id.ScheduleID) (*models.Schedule, error) {
	schedules, err := s.query(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, scheduleID.String())
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, sentinel.ErrNotFound)
	}
	return schedules[0], nil
}

func (s *PostgresStore) ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Schedule, error) {
	return s.query(ctx, `
		SELECT `+scheduleColumns+` FROM schedules WHERE drive_id = $1 ORDER BY interview_date`, driveID.String())
}

// ListActiveByCandidate uses the (student_id, status) roster index.
func (s *PostgresStore) ListActiveByCandidate(ctx context.Context, studentID id.StudentID) ([]*models.Schedule, error) {
	return s.query(ctx, `
		SELECT `+scheduleColumns+` FROM schedules
		WHERE id IN (
			SELECT schedule_id FROM schedule_candidates
			WHERE student_id = $1 AND status IN ('scheduled', 'ongoing')
		)
		ORDER BY interview_date`, studentID.String())
}

// Execute locks the schedule row, so roster writes for one schedule serialize.
func (s *PostgresStore) Execute(ctx context.Context, scheduleID id.ScheduleID, validate func(*models.Schedule) error, mutate func(*models.Schedule)) (*models.Schedule, error) {
	var result *models.Schedule
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		locked, err := s.query(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1 FOR UPDATE`, scheduleID.String())
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return fmt.Errorf("schedule %s: %w", scheduleID, sentinel.ErrNotFound)
		}
		sch := locked[0]
		if err := validate(sch); err != nil {
			return err
		}
		mutate(sch)

		rounds, err := json.Marshal(sch.Rounds)
		if err != nil {
			return fmt.Errorf("encode rounds: %w", err)
		}
		blockedBy, err := postgres.EncodeModeration(sch.BlockedBy)
		if err != nil {
			return err
		}
		exec := tx.Execer(ctx, s.db)
		_, err = exec.ExecContext(ctx, `
			UPDATE schedules
			SET interview_date = $2, interview_time = $3, venue = $4, rounds = $5, status = $6,
				is_blocked = $7, is_cancelled = $8, blocked_by = $9, updated_at = $10
			WHERE id = $1`,
			sch.ID.String(), sch.Date, sch.Time, sch.Venue, rounds, string(sch.Status),
			sch.IsBlocked, sch.IsCancelled, blockedBy, sch.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}

		keep := make([]string, 0, len(sch.Candidates))
		for _, c := range sch.Candidates {
			keep = append(keep, c.StudentID.String())
		}
		_, err = exec.ExecContext(ctx, `
			DELETE FROM schedule_candidates
			WHERE schedule_id = $1 AND NOT (student_id = ANY($2::text[]))`,
			sch.ID.String(), pq.Array(keep),
		)
		if err != nil {
			return fmt.Errorf("prune candidates: %w", err)
		}
		if err := s.upsertCandidates(ctx, sch); err != nil {
			return err
		}
		result = sch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// upsertCandidates writes the whole roster in one statement over parallel
// arrays. Scores travel as a nullable float8 array.
func (s *PostgresStore) upsertCandidates(ctx context.Context, sch *models.Schedule) error {
	if len(sch.Candidates) == 0 {
		return nil
	}
	n := len(sch.Candidates)
	var (
		students = make([]string, 0, n)
		names    = make([]string, 0, n)
		emails   = make([]string, 0, n)
		statuses = make([]string, 0, n)
		notes    = make([]string, 0, n)
		scores   = make([]sql.NullFloat64, 0, n)
		added    = make([]string, 0, n)
		updated  = make([]string, 0, n)
	)
	for _, c := range sch.Candidates {
		students = append(students, c.StudentID.String())
		names = append(names, c.Name)
		emails = append(emails, c.Email)
		statuses = append(statuses, string(c.Status))
		notes = append(notes, c.FeedbackNotes)
		scores = append(scores, nullScore(c.Score))
		added = append(added, c.AddedAt.UTC().Format(time.RFC3339Nano))
		updated = append(updated, c.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}

	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO schedule_candidates (`+candidateColumns+`)
		SELECT $1, u.student_id, u.name, u.email, u.status, u.feedback_notes, u.score,
			u.added_at::timestamptz, u.updated_at::timestamptz
		FROM unnest($2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::float8[], $8::text[], $9::text[])
			AS u(student_id, name, email, status, feedback_notes, score, added_at, updated_at)
		ON CONFLICT (schedule_id, student_id) DO UPDATE
		SET status = EXCLUDED.status, feedback_notes = EXCLUDED.feedback_notes,
			score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`,
		sch.ID.String(), pq.Array(students), pq.Array(names), pq.Array(emails), pq.Array(statuses),
		pq.Array(notes), pq.Array(scores), pq.Array(added), pq.Array(updated),
	)
	if err != nil {
		return fmt.Errorf("upsert candidates for schedule %s: %w", sch.ID, err)
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Schedule, error) {
	exec := tx.Execer(ctx, s.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Schedule, 0)
	byID := make(map[id.ScheduleID]*models.Schedule)
	for rows.Next() {
		sch, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sch)
		byID[sch.ID] = sch
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.loadCandidates(ctx, exec, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) loadCandidates(ctx context.Context, exec tx.Executor, byID map[id.ScheduleID]*models.Schedule) error {
	ids := make([]string, 0, len(byID))
	for scheduleID := range byID {
		ids = append(ids, scheduleID.String())
	}
	rows, err := exec.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM schedule_candidates
		WHERE schedule_id = ANY($1::text[])
		ORDER BY added_at, student_id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c                     models.Candidate
			scheduleID, studentID string
			status                string
			score                 sql.NullFloat64
		)
		if err := rows.Scan(&scheduleID, &studentID, &c.Name, &c.Email, &status, &c.FeedbackNotes, &score, &c.AddedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan candidate: %w", err)
		}
		c.StudentID = id.StudentID(studentID)
		c.Status = models.CandidateStatus(status)
		if score.Valid {
			v := score.Float64
			c.Score = &v
		}
		if sch, ok := byID[id.ScheduleID(scheduleID)]; ok {
			sch.Candidates = append(sch.Candidates, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	return nil
}

func scanSchedule(rows *sql.Rows) (*models.Schedule, error) {
	var (
		sch                        models.Schedule
		scheduleID, driveID, recID string
		status                     string
		rounds, blockedBy          []byte
	)
	err := rows.Scan(&scheduleID, &driveID, &recID, &sch.Date, &sch.Time, &sch.Venue, &rounds, &status,
		&sch.IsBlocked, &sch.IsCancelled, &blockedBy, &sch.CreatedAt, &sch.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	sch.ID = id.ScheduleID(scheduleID)
	sch.DriveID = id.DriveID(driveID)
	sch.RecruiterID = id.RecruiterID(recID)
	sch.Status = models.Status(status)
	sch.Candidates = []models.Candidate{}
	if err := json.Unmarshal(rounds, &sch.Rounds); err != nil {
		return nil, fmt.Errorf("decode rounds: %w", err)
	}
	if sch.BlockedBy, err = postgres.DecodeModeration(blockedBy); err != nil {
		return nil, err
	}
	return &sch, nil
}

func nullScore(score *float64) sql.NullFloat64 {
	if score == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *score, Valid: true}
}
