//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork for use case tests.
// Writes are applied immediately; a failed callback does not roll back.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/infra"
	"event-notifier/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type storedJob struct {
	job         notification.Job
	lockedUntil *time.Time
}

type markKey struct {
	eventID uuid.UUID
	userID  uuid.UUID
	day     string
}

type Store struct {
	mu          sync.Mutex
	events      map[uuid.UUID]*event.Snapshot
	registrants map[uuid.UUID][]notification.Contact
	followers   map[uuid.UUID][]notification.Contact
	records     map[uuid.UUID]*event.ChangeRecord
	jobs        []*storedJob
	marks       map[markKey]struct{}

	// Failure injection; nil means succeed.
	ReadErr    error
	EnqueueErr error
	SaveErr    error
	ClaimErr   error
	MarkErr    error
}

func New() *Store {
	return &Store{
		events:      make(map[uuid.UUID]*event.Snapshot),
		registrants: make(map[uuid.UUID][]notification.Contact),
		followers:   make(map[uuid.UUID][]notification.Contact),
		records:     make(map[uuid.UUID]*event.ChangeRecord),
		marks:       make(map[markKey]struct{}),
	}
}

// Seeding

func (s *Store) PutEvent(e *event.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.events[e.ID] = &cp
}

func (s *Store) DeleteEvent(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
}

func (s *Store) AddRegistrant(eventID uuid.UUID, c notification.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrants[eventID] = append(s.registrants[eventID], c)
}

func (s *Store) AddFollower(eventID uuid.UUID, c notification.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.followers[eventID] = append(s.followers[eventID], c)
}

func (s *Store) PutChangeRecord(r *event.ChangeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID()] = r
}

func (s *Store) PutJob(j *notification.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &storedJob{job: *j})
}

// Inspection

func (s *Store) Event(id uuid.UUID) *event.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil
	}
	cp := *e
	return &cp
}

func (s *Store) ChangeRecords(eventID uuid.UUID) []*event.ChangeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*event.ChangeRecord
	for _, r := range s.records {
		if r.EventID() == eventID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) Jobs() []notification.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Job, len(s.jobs))
	for i, sj := range s.jobs {
		out[i] = sj.job
	}
	return out
}

func (s *Store) Job(id uuid.UUID) (notification.Job, bool) {
	for _, j := range s.Jobs() {
		if j.ID == id {
			return j, true
		}
	}
	return notification.Job{}, false
}

func (s *Store) MarkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.marks)
}

// shared.UnitOfWork

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &tx{s: s})
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &tx{s: s})
}

type tx struct {
	s *Store
}

func (t *tx) Events() shared.EventRepository               { return t }
func (t *tx) ChangeRecords() shared.ChangeRecordRepository { return (*recordRepo)(t) }
func (t *tx) Jobs() shared.NotificationJobRepository       { return (*jobRepo)(t) }
func (t *tx) SweepMarks() shared.SweepMarkRepository       { return (*markRepo)(t) }
func (t *tx) Reads() shared.CommandReads                   { return (*reads)(t) }

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", pgx.ErrNoRows)
}

func (t *tx) Update(_ context.Context, snapshot *event.Snapshot, _ time.Time) error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[snapshot.ID]; !ok {
		return notFound("event")
	}
	cp := *snapshot
	s.events[snapshot.ID] = &cp
	return nil
}

type recordRepo tx

func (r *recordRepo) Create(_ context.Context, record *event.ChangeRecord) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID()] = record
	return nil
}

type reads tx

func (r *reads) EventByID(_ context.Context, id uuid.UUID) (*event.Snapshot, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to read event", s.ReadErr)
	}
	e, ok := s.events[id]
	if !ok {
		return nil, notFound("event")
	}
	cp := *e
	return &cp, nil
}

func (r *reads) EventByIDForUpdate(ctx context.Context, id uuid.UUID) (*event.Snapshot, error) {
	return r.EventByID(ctx, id)
}

func (r *reads) RemindableEventsBetween(_ context.Context, from, to time.Time) ([]*event.Snapshot, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to read events", s.ReadErr)
	}
	var out []*event.Snapshot
	for _, e := range s.events {
		if e.StartDate == nil || !e.IsRemindable() {
			continue
		}
		if !e.StartDate.Before(from) && e.StartDate.Before(to) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(*out[j].StartDate) })
	return out, nil
}

func (r *reads) Registrants(_ context.Context, eventID uuid.UUID) ([]notification.Contact, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to read registrants", s.ReadErr)
	}
	return append([]notification.Contact(nil), s.registrants[eventID]...), nil
}

func (r *reads) Followers(_ context.Context, eventID uuid.UUID) ([]notification.Contact, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to read followers", s.ReadErr)
	}
	return append([]notification.Contact(nil), s.followers[eventID]...), nil
}

func (r *reads) ChangeRecordByID(_ context.Context, id uuid.UUID) (*event.ChangeRecord, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to read change record", s.ReadErr)
	}
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound("change record")
	}
	return rec, nil
}

type jobRepo tx

func (r *jobRepo) Enqueue(_ context.Context, job *notification.Job) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EnqueueErr != nil {
		return false, infra.WrapRepoErr("failed to enqueue notification job", s.EnqueueErr)
	}
	for _, sj := range s.jobs {
		if conflicts(&sj.job, job) {
			return false, nil
		}
	}
	s.jobs = append(s.jobs, &storedJob{job: *job})
	return true, nil
}

func conflicts(existing, incoming *notification.Job) bool {
	if existing.Kind != incoming.Kind || existing.Recipient.UserID != incoming.Recipient.UserID {
		return false
	}
	switch incoming.Kind {
	case notification.KindUpdate:
		return existing.ChangeRecordID != nil && incoming.ChangeRecordID != nil &&
			*existing.ChangeRecordID == *incoming.ChangeRecordID
	case notification.KindReminder:
		return existing.EventID == incoming.EventID &&
			(existing.Status == notification.StatusQueued || existing.Status == notification.StatusRunning)
	default:
		return false
	}
}

func (r *jobRepo) ClaimDue(_ context.Context, now time.Time, limit int, lease time.Duration) ([]*notification.Job, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClaimErr != nil {
		return nil, infra.WrapRepoErr("failed to claim due notification jobs", s.ClaimErr)
	}

	due := make([]*storedJob, 0)
	for _, sj := range s.jobs {
		queued := sj.job.Status == notification.StatusQueued && !sj.job.ScheduledFor.After(now)
		expired := sj.job.Status == notification.StatusRunning && sj.lockedUntil != nil && sj.lockedUntil.Before(now)
		if queued || expired {
			due = append(due, sj)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].job.ScheduledFor.Before(due[j].job.ScheduledFor) })
	if len(due) > limit {
		due = due[:limit]
	}

	out := make([]*notification.Job, len(due))
	until := now.Add(lease)
	for i, sj := range due {
		if sj.job.Status == notification.StatusRunning {
			sj.job.Attempts++
		}
		sj.job.Status = notification.StatusRunning
		sj.lockedUntil = &until
		cp := sj.job
		out[i] = &cp
	}
	return out, nil
}

func (r *jobRepo) SaveAttempt(_ context.Context, job *notification.Job, _ time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return infra.WrapRepoErr("failed to save job attempt", s.SaveErr)
	}
	for _, sj := range s.jobs {
		if sj.job.ID == job.ID {
			sj.job = *job
			sj.lockedUntil = nil
			return nil
		}
	}
	return notFound("notification job")
}

type markRepo tx

func dayKey(eventID, userID uuid.UUID, day time.Time) markKey {
	return markKey{eventID: eventID, userID: userID, day: day.Format(time.DateOnly)}
}

func (r *markRepo) Claim(_ context.Context, eventID, userID uuid.UUID, day time.Time) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarkErr != nil {
		return false, infra.WrapRepoErr("failed to claim sweep delivery", s.MarkErr)
	}
	k := dayKey(eventID, userID, day)
	if _, ok := s.marks[k]; ok {
		return false, nil
	}
	s.marks[k] = struct{}{}
	return true, nil
}

func (r *markRepo) Release(_ context.Context, eventID, userID uuid.UUID, day time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.marks, dayKey(eventID, userID, day))
	return nil
}
