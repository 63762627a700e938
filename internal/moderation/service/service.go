// Package service implements administrator overrides on recruiter and student
// records. Each action commits its primary write through the owning service
// first; notifications and the audit trail follow best-effort and never roll
// the write back.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	accountmodels "placement/internal/account/models"
	drivemodels "placement/internal/drive/models"
	ledgermodels "placement/internal/ledger/models"
	"placement/internal/moderation/models"
	notificationmodels "placement/internal/notification/models"
	"placement/internal/platform/metrics"
	schedulemodels "placement/internal/schedule/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	audit "placement/pkg/platform/audit"
	"placement/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

type Drives interface {
	Get(ctx context.Context, driveID id.DriveID) (*drivemodels.Drive, error)
	Block(ctx context.Context, driveID id.DriveID, record id.ModerationRecord) (*drivemodels.Drive, bool, error)
	Delete(ctx context.Context, driveID id.DriveID, record id.ModerationRecord) (*drivemodels.Drive, bool, error)
}

type Schedules interface {
	Get(ctx context.Context, scheduleID id.ScheduleID) (*schedulemodels.Schedule, error)
	Block(ctx context.Context, scheduleID id.ScheduleID, record id.ModerationRecord) (*schedulemodels.Schedule, bool, error)
	RemoveCandidate(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID) (*schedulemodels.Schedule, schedulemodels.Candidate, error)
	RemoveActiveCandidate(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID) (*schedulemodels.Schedule, schedulemodels.Candidate, error)
	ListActiveByCandidate(ctx context.Context, studentID id.StudentID) ([]*schedulemodels.Schedule, error)
}

type Ledger interface {
	ListByDrive(ctx context.Context, driveID id.DriveID) ([]*ledgermodels.Application, error)
	Remove(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*ledgermodels.Application, error)
}

type Accounts interface {
	Block(ctx context.Context, studentID id.StudentID, record id.ModerationRecord) (*accountmodels.Student, bool, error)
	Unblock(ctx context.Context, studentID id.StudentID) (*accountmodels.Student, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipient notificationmodels.Recipient, msg notificationmodels.Message) error
	NotifyAll(ctx context.Context, recipients []notificationmodels.Recipient, msg notificationmodels.Message) notificationmodels.BulkResult
}

type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	drives    Drives
	schedules Schedules
	ledger    Ledger
	accounts  Accounts
	notifier  Notifier
	auditor   Auditor

	cascadeLimit int
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithCascadeConcurrency bounds the parallel roster writes of BlockStudent.
func WithCascadeConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cascadeLimit = n
		}
	}
}

func New(drives Drives, schedules Schedules, ledger Ledger, accounts Accounts, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		drives:       drives,
		schedules:    schedules,
		ledger:       ledger,
		accounts:     accounts,
		notifier:     notifier,
		cascadeLimit: 4,
		logger:       slog.Default(),
		tracer:       otel.Tracer("placement/moderation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BlockDrive tombstones the drive and notifies every student with a ledger
// entry for it plus the owning recruiter. Repeating it is a no-op that keeps
// the original moderation record and sends nothing.
func (s *Service) BlockDrive(ctx context.Context, driveID id.DriveID, req models.Request) (*models.DriveResult, error) {
	return s.moderateDrive(ctx, driveID, req, driveAction{
		action:        audit.ActionDriveBlocked,
		apply:         s.drives.Block,
		studentType:   notificationmodels.TypeJobDriveBlocked,
		recruiterType: notificationmodels.TypeDriveBlockedRecruiter,
	})
}

// DeleteDrive is BlockDrive with delete semantics.
func (s *Service) DeleteDrive(ctx context.Context, driveID id.DriveID, req models.Request) (*models.DriveResult, error) {
	return s.moderateDrive(ctx, driveID, req, driveAction{
		action:        audit.ActionDriveDeleted,
		apply:         s.drives.Delete,
		studentType:   notificationmodels.TypeJobDriveDeleted,
		recruiterType: notificationmodels.TypeDriveDeletedRecruiter,
	})
}

type driveAction struct {
	action        audit.Action
	apply         func(context.Context, id.DriveID, id.ModerationRecord) (*drivemodels.Drive, bool, error)
	studentType   notificationmodels.Type
	recruiterType notificationmodels.Type
}

func (s *Service) moderateDrive(ctx context.Context, driveID id.DriveID, req models.Request, a driveAction) (*models.DriveResult, error) {
	ctx, span := s.startSpan(ctx, a.action, attribute.String("drive.id", driveID.String()))
	defer span.End()

	d, changed, err := a.apply(ctx, driveID, req.Record(requestcontext.Now(ctx)))
	if err != nil {
		return nil, s.fail(span, a.action, err)
	}
	res := &models.DriveResult{Drive: d, Outcome: models.Outcome{Changed: changed}}
	if !changed {
		s.finish(ctx, span, a.action, "drive", driveID.String(), req, &res.Outcome)
		return res, nil
	}

	data := map[string]string{
		"company":   d.CompanyName,
		"position":  d.Position,
		"reason":    req.Reason,
		"adminName": req.Actor.Name,
		"driveId":   driveID.String(),
	}

	// Recipients come from the ledger, never from a cached applicant list.
	applicants, listErr := s.ledger.ListByDrive(ctx, driveID)
	if listErr != nil {
		s.logger.WarnContext(ctx, "failed to resolve drive applicants for notification",
			"drive_id", driveID,
			"error", listErr,
			"request_id", requestcontext.RequestID(ctx),
		)
		res.Count(false)
	} else if len(applicants) > 0 {
		recipients := make([]notificationmodels.Recipient, 0, len(applicants))
		for _, app := range applicants {
			recipients = append(recipients, notificationmodels.Student(app.StudentID))
		}
		bulk := s.notifier.NotifyAll(ctx, recipients, notificationmodels.Message{
			Type:           a.studentType,
			AffectedItemID: driveID.String(),
			Data:           data,
		})
		res.Notified += bulk.Inserted
		res.NotificationFailures += bulk.Failed
	}

	recruiterData := data
	if listErr == nil {
		recruiterData = withValue(data, "applicantCount", strconv.Itoa(len(applicants)))
	}
	res.Count(s.notify(ctx, notificationmodels.Recruiter(d.RecruiterID), notificationmodels.Message{
		Type:           a.recruiterType,
		AffectedItemID: driveID.String(),
		Data:           recruiterData,
	}))

	s.finish(ctx, span, a.action, "drive", driveID.String(), req, &res.Outcome)
	return res, nil
}

// BlockSchedule cancels the schedule, notifying every candidate and, with a
// separate message, the owning recruiter.
func (s *Service) BlockSchedule(ctx context.Context, scheduleID id.ScheduleID, req models.Request) (*models.ScheduleResult, error) {
	ctx, span := s.startSpan(ctx, audit.ActionScheduleBlocked, attribute.String("schedule.id", scheduleID.String()))
	defer span.End()

	sch, changed, err := s.schedules.Block(ctx, scheduleID, req.Record(requestcontext.Now(ctx)))
	if err != nil {
		return nil, s.fail(span, audit.ActionScheduleBlocked, err)
	}
	res := &models.ScheduleResult{Schedule: sch, Outcome: models.Outcome{Changed: changed}}
	if !changed {
		s.finish(ctx, span, audit.ActionScheduleBlocked, "schedule", scheduleID.String(), req, &res.Outcome)
		return res, nil
	}

	data := s.scheduleData(ctx, sch, req)
	if len(sch.Candidates) > 0 {
		recipients := make([]notificationmodels.Recipient, 0, len(sch.Candidates))
		for _, c := range sch.Candidates {
			recipients = append(recipients, notificationmodels.Student(c.StudentID))
		}
		bulk := s.notifier.NotifyAll(ctx, recipients, notificationmodels.Message{
			Type:           notificationmodels.TypeInterviewBlocked,
			AffectedItemID: scheduleID.String(),
			Data:           data,
		})
		res.Notified += bulk.Inserted
		res.NotificationFailures += bulk.Failed
	}
	res.Count(s.notify(ctx, notificationmodels.Recruiter(sch.RecruiterID), notificationmodels.Message{
		Type:           notificationmodels.TypeInterviewBlockedRecruiter,
		AffectedItemID: scheduleID.String(),
		Data:           withValue(data, "candidateCount", strconv.Itoa(len(sch.Candidates))),
	}))

	s.finish(ctx, span, audit.ActionScheduleBlocked, "schedule", scheduleID.String(), req, &res.Outcome)
	return res, nil
}

// RemoveCandidate drops one student from a schedule and tells them. The
// schedule's recruiter is told too unless they did it themselves.
func (s *Service) RemoveCandidate(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID, req models.Request) (*models.CandidateResult, error) {
	ctx, span := s.startSpan(ctx, audit.ActionCandidateRemoved,
		attribute.String("schedule.id", scheduleID.String()),
		attribute.String("student.id", studentID.String()),
	)
	defer span.End()

	if req.Actor.Recruiter {
		current, err := s.schedules.Get(ctx, scheduleID)
		if err != nil {
			return nil, s.fail(span, audit.ActionCandidateRemoved, err)
		}
		if current.RecruiterID.String() != req.Actor.ID {
			return nil, s.fail(span, audit.ActionCandidateRemoved,
				dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may remove candidates"))
		}
	}

	sch, removed, err := s.schedules.RemoveCandidate(ctx, scheduleID, studentID)
	if err != nil {
		return nil, s.fail(span, audit.ActionCandidateRemoved, err)
	}
	res := &models.CandidateResult{Schedule: sch, Removed: removed, Outcome: models.Outcome{Changed: true}}
	s.notifyCandidateRemoved(ctx, sch, removed, req, !req.Actor.Recruiter, &res.Outcome)

	s.finish(ctx, span, audit.ActionCandidateRemoved, "schedule", scheduleID.String(), req, &res.Outcome)
	return res, nil
}

// RemoveApplication deletes the ledger entry and tells the student.
func (s *Service) RemoveApplication(ctx context.Context, studentID id.StudentID, driveID id.DriveID, req models.Request) (*models.ApplicationResult, error) {
	ctx, span := s.startSpan(ctx, audit.ActionApplicationRemoved,
		attribute.String("drive.id", driveID.String()),
		attribute.String("student.id", studentID.String()),
	)
	defer span.End()

	app, err := s.ledger.Remove(ctx, studentID, driveID)
	if err != nil {
		return nil, s.fail(span, audit.ActionApplicationRemoved, err)
	}
	res := &models.ApplicationResult{Application: app, Outcome: models.Outcome{Changed: true}}
	res.Count(s.notify(ctx, notificationmodels.Student(studentID), notificationmodels.Message{
		Type:           notificationmodels.TypeApplicationRemoved,
		AffectedItemID: driveID.String(),
		Data: map[string]string{
			"company":  app.CompanyName,
			"position": app.Position,
			"reason":   req.Reason,
			"driveId":  driveID.String(),
		},
	}))

	s.finish(ctx, span, audit.ActionApplicationRemoved, "application", studentID.String()+"/"+driveID.String(), req, &res.Outcome)
	return res, nil
}

// BlockStudent flips the account to blocked, then removes the student from
// every schedule where they are still scheduled or ongoing. Roster writes run
// with bounded concurrency; a failed item is logged and counted and never
// stops its siblings. The cascade runs to completion even if the caller goes
// away.
//
// Blocking a blocked student keeps the original block record and reruns the
// cascade, so a call that failed after the flag was committed can be retried.
func (s *Service) BlockStudent(ctx context.Context, studentID id.StudentID, req models.Request) (*models.StudentResult, error) {
	ctx, span := s.startSpan(ctx, audit.ActionStudentBlocked, attribute.String("student.id", studentID.String()))
	defer span.End()

	student, changed, err := s.accounts.Block(ctx, studentID, req.Record(requestcontext.Now(ctx)))
	if err != nil {
		return nil, s.fail(span, audit.ActionStudentBlocked, err)
	}
	res := &models.StudentResult{Student: student, Outcome: models.Outcome{Changed: changed}}
	if changed {
		res.Count(s.notify(ctx, notificationmodels.Student(studentID), notificationmodels.Message{
			Type:           notificationmodels.TypeAccountBlocked,
			AffectedItemID: studentID.String(),
			Data:           map[string]string{"reason": req.Reason, "adminName": req.Actor.Name},
		}))
	}

	ctx = context.WithoutCancel(ctx)
	schedules, err := s.schedules.ListActiveByCandidate(ctx, studentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "student block cascade lookup failed",
			"student_id", studentID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, s.fail(span, audit.ActionStudentBlocked, err)
	}

	var removed, skipped, failed, notified, notifyFailed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.cascadeLimit)
	for _, sch := range schedules {
		g.Go(func() error {
			switch s.cascadeRemove(ctx, sch.ID, studentID, req, &notified, &notifyFailed) {
			case cascadeRemoved:
				removed.Add(1)
			case cascadeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	res.CascadeAttempted = len(schedules)
	res.CascadeRemoved = int(removed.Load())
	res.CascadeSkipped = int(skipped.Load())
	res.CascadeFailed = int(failed.Load())
	res.Notified += int(notified.Load())
	res.NotificationFailures += int(notifyFailed.Load())

	s.metrics.AddCascade("student_block", "removed", res.CascadeRemoved)
	s.metrics.AddCascade("student_block", "skipped", res.CascadeSkipped)
	s.metrics.AddCascade("student_block", "failed", res.CascadeFailed)
	span.SetAttributes(
		attribute.Int("cascade.attempted", res.CascadeAttempted),
		attribute.Int("cascade.removed", res.CascadeRemoved),
		attribute.Int("cascade.skipped", res.CascadeSkipped),
		attribute.Int("cascade.failed", res.CascadeFailed),
	)
	s.finish(ctx, span, audit.ActionStudentBlocked, "student", studentID.String(), req, &res.Outcome)
	return res, nil
}

type cascadeResult int

const (
	cascadeRemoved cascadeResult = iota
	cascadeSkipped
	cascadeFailed
)

// cascadeRemove removes one pending roster entry. A student already gone from
// the roster counts as removed; one whose interview moved past ongoing since
// the lookup is left in place and skipped.
func (s *Service) cascadeRemove(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID, req models.Request, notified, notifyFailed *atomic.Int64) cascadeResult {
	ctx, span := s.tracer.Start(ctx, "moderation.cascade_item", trace.WithAttributes(
		attribute.String("schedule.id", scheduleID.String()),
		attribute.String("student.id", studentID.String()),
	))
	defer span.End()

	sch, removed, err := s.schedules.RemoveActiveCandidate(ctx, scheduleID, studentID)
	if err != nil {
		switch dErrors.CodeOf(err) {
		case dErrors.CodeNotFound:
			return cascadeRemoved
		case dErrors.CodeConflict:
			span.SetAttributes(attribute.Bool("cascade.skipped", true))
			return cascadeSkipped
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remove candidate failed")
		s.logger.WarnContext(ctx, "student block cascade item failed",
			"schedule_id", scheduleID,
			"student_id", studentID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return cascadeFailed
	}

	var out models.Outcome
	s.notifyCandidateRemoved(ctx, sch, removed, req, true, &out)
	notified.Add(int64(out.Notified))
	notifyFailed.Add(int64(out.NotificationFailures))
	return cascadeRemoved
}

// UnblockStudent reverses BlockStudent's flag. Roster entries removed by the
// block cascade are not restored.
func (s *Service) UnblockStudent(ctx context.Context, studentID id.StudentID, req models.Request) (*models.StudentResult, error) {
	ctx, span := s.startSpan(ctx, audit.ActionStudentUnblocked, attribute.String("student.id", studentID.String()))
	defer span.End()

	student, err := s.accounts.Unblock(ctx, studentID)
	if err != nil {
		return nil, s.fail(span, audit.ActionStudentUnblocked, err)
	}
	res := &models.StudentResult{Student: student, Outcome: models.Outcome{Changed: true}}
	res.Count(s.notify(ctx, notificationmodels.Student(studentID), notificationmodels.Message{
		Type:           notificationmodels.TypeAccountUnblocked,
		AffectedItemID: studentID.String(),
		Data:           map[string]string{"adminName": req.Actor.Name},
	}))

	s.finish(ctx, span, audit.ActionStudentUnblocked, "student", studentID.String(), req, &res.Outcome)
	return res, nil
}

func (s *Service) notifyCandidateRemoved(ctx context.Context, sch *schedulemodels.Schedule, removed schedulemodels.Candidate, req models.Request, tellRecruiter bool, out *models.Outcome) {
	data := map[string]string{
		"date":        sch.Date.Format(dateLayout),
		"time":        sch.Time,
		"venue":       sch.Venue,
		"reason":      req.Reason,
		"studentName": removed.Name,
		"scheduleId":  sch.ID.String(),
	}
	out.Count(s.notify(ctx, notificationmodels.Student(removed.StudentID), notificationmodels.Message{
		Type:           notificationmodels.TypeCandidateRemoved,
		AffectedItemID: sch.ID.String(),
		Data:           data,
	}))
	if !tellRecruiter {
		return
	}
	out.Count(s.notify(ctx, notificationmodels.Recruiter(sch.RecruiterID), notificationmodels.Message{
		Type:           notificationmodels.TypeCandidateRemovedRecruiter,
		AffectedItemID: sch.ID.String(),
		Data:           data,
	}))
}

// scheduleData builds template data for schedule messages. The drive lookup
// only decorates the message, so its failure is ignored.
func (s *Service) scheduleData(ctx context.Context, sch *schedulemodels.Schedule, req models.Request) map[string]string {
	data := map[string]string{
		"date":       sch.Date.Format(dateLayout),
		"time":       sch.Time,
		"venue":      sch.Venue,
		"reason":     req.Reason,
		"adminName":  req.Actor.Name,
		"scheduleId": sch.ID.String(),
		"driveId":    sch.DriveID.String(),
	}
	if d, err := s.drives.Get(ctx, sch.DriveID); err == nil {
		data["company"] = d.CompanyName
		data["position"] = d.Position
	}
	return data
}

func (s *Service) notify(ctx context.Context, recipient notificationmodels.Recipient, msg notificationmodels.Message) bool {
	if err := s.notifier.Notify(ctx, recipient, msg); err != nil {
		s.logger.WarnContext(ctx, "moderation notification failed",
			"type", msg.Type,
			"recipient_id", recipient.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return false
	}
	return true
}

func (s *Service) startSpan(ctx context.Context, action audit.Action, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("moderation.action", string(action)))
	return s.tracer.Start(ctx, "moderation."+string(action), trace.WithAttributes(attrs...))
}

func (s *Service) fail(span trace.Span, action audit.Action, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	s.metrics.IncModeration(string(action), "rejected")
	return err
}

func (s *Service) finish(ctx context.Context, span trace.Span, action audit.Action, targetType, targetID string, req models.Request, out *models.Outcome) {
	outcome := "applied"
	if !out.Changed {
		outcome = "noop"
	}
	s.metrics.IncModeration(string(action), outcome)
	span.SetAttributes(
		attribute.Bool("moderation.changed", out.Changed),
		attribute.Int("notification.sent", out.Notified),
		attribute.Int("notification.failed", out.NotificationFailures),
	)
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp:  requestcontext.Now(ctx),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		ActorID:    req.Actor.ID,
		ActorName:  req.Actor.Name,
		Reason:     req.Reason,
		Changed:    out.Changed,
		RequestID:  requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record moderation audit event",
			"action", action,
			"target_id", targetID,
			"error", err,
		)
	}
}

func withValue(m map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
