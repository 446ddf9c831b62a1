package usecase

import (
	"context"
	"io"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"clinic-frontdesk/internal/domain/entity"
	"clinic-frontdesk/internal/domain/repository"
	"clinic-frontdesk/internal/scheduling"
	"clinic-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// memStore is an in-memory stand-in for Postgres. Every transaction gets its
// own *gorm.DB handle, which the store uses only as a key for the undo journal;
// a failed transaction replays the journal backwards. The pending queue unique
// index is enforced on write like the real partial index.
type memStore struct {
	mu           sync.Mutex
	doctors      map[uuid.UUID]entity.Doctor
	patients     map[uuid.UUID]entity.Patient
	appointments map[uuid.UUID]entity.Appointment
	audits       []entity.AuditLog
	journals     map[*gorm.DB][]func()

	nextAuditID int64
	scopeLocks  int64

	failAudit           error
	failAppointmentRead error
}

func newMemStore() *memStore {
	return &memStore{
		doctors:      make(map[uuid.UUID]entity.Doctor),
		patients:     make(map[uuid.UUID]entity.Patient),
		appointments: make(map[uuid.UUID]entity.Appointment),
		journals:     make(map[*gorm.DB][]func()),
	}
}

// record must be called with mu held.
func (s *memStore) record(db *gorm.DB, undo func()) {
	if db == nil {
		return
	}
	if _, ok := s.journals[db]; ok {
		s.journals[db] = append(s.journals[db], undo)
	}
}

func (s *memStore) addDoctor(d entity.Doctor) entity.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.doctors[d.ID] = d
	return d
}

func (s *memStore) addAppointment(a entity.Appointment) entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.PatientID == uuid.Nil {
		p := entity.Patient{ID: uuid.New(), Name: "Seeded", PhoneNumber: a.ID.String()[:12], Gender: entity.GenderOther}
		s.patients[p.ID] = p
		a.PatientID = p.ID
	}
	a.AppointmentDate = scheduling.Date(a.AppointmentDate)
	s.appointments[a.ID] = a
	return a
}

func (s *memStore) appointmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

func (s *memStore) patientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patients)
}

func (s *memStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.audits))
	for i, a := range s.audits {
		actions[i] = a.Action
	}
	return actions
}

func (s *memStore) stored(id uuid.UUID) (entity.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	return a, ok
}

// hydrate mimics Preload("Doctor").Preload("Patient"). mu must be held.
func (s *memStore) hydrate(a entity.Appointment) entity.Appointment {
	a.Doctor = s.doctors[a.DoctorID]
	a.Patient = s.patients[a.PatientID]
	return a
}

// Transactor

type memTransactor struct{ store *memStore }

func (t memTransactor) Conn(ctx context.Context) *gorm.DB { return nil }

func (t memTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	handle := &gorm.DB{}

	t.store.mu.Lock()
	t.store.journals[handle] = []func(){}
	t.store.mu.Unlock()

	err := fn(handle)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if err != nil {
		undo := t.store.journals[handle]
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
	delete(t.store.journals, handle)
	return err
}

// Doctors

type memDoctorRepo struct{ store *memStore }

func (r memDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.doctors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r memDoctorRepo) FindAvailable(db *gorm.DB) ([]entity.Doctor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.store.doctors {
		if d.IsAvailable {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Patients

type memPatientRepo struct{ store *memStore }

func (r memPatientRepo) FindByPhone(db *gorm.DB, phone string) (*entity.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.patients {
		if p.PhoneNumber == phone {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.patients {
		if p.PhoneNumber == patient.PhoneNumber {
			*patient = p
			return nil
		}
	}
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	id := patient.ID
	r.store.patients[id] = *patient
	r.store.record(db, func() { delete(r.store.patients, id) })
	return nil
}

func (r memPatientRepo) Update(db *gorm.DB, patient *entity.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev := r.store.patients[patient.ID]
	r.store.patients[patient.ID] = *patient
	r.store.record(db, func() { r.store.patients[prev.ID] = prev })
	return nil
}

// Appointments

type memAppointmentRepo struct{ store *memStore }

// pendingQueueTaken mirrors uq_appointments_pending_queue. mu must be held.
func (r memAppointmentRepo) pendingQueueTaken(a *entity.Appointment) bool {
	if a.Status != entity.AppointmentStatusPending {
		return false
	}
	for _, other := range r.store.appointments {
		if other.ID == a.ID || other.Status != entity.AppointmentStatusPending {
			continue
		}
		if other.DoctorID == a.DoctorID &&
			other.AppointmentDate.Equal(scheduling.Date(a.AppointmentDate)) &&
			other.QueueNumber == a.QueueNumber {
			return true
		}
	}
	return false
}

func (r memAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.pendingQueueTaken(appointment) {
		return repository.ErrDuplicateQueueNumber
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now().UTC()
	appointment.CreatedAt, appointment.UpdatedAt = now, now

	row := *appointment
	row.AppointmentDate = scheduling.Date(row.AppointmentDate)
	row.Doctor, row.Patient = entity.Doctor{}, entity.Patient{}
	r.store.appointments[row.ID] = row
	r.store.record(db, func() { delete(r.store.appointments, row.ID) })
	return nil
}

func (r memAppointmentRepo) Update(db *gorm.DB, appointment *entity.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.pendingQueueTaken(appointment) {
		return repository.ErrDuplicateQueueNumber
	}
	prev := r.store.appointments[appointment.ID]
	appointment.UpdatedAt = time.Now().UTC()

	row := *appointment
	row.AppointmentDate = scheduling.Date(row.AppointmentDate)
	row.Doctor, row.Patient = entity.Doctor{}, entity.Patient{}
	r.store.appointments[row.ID] = row
	r.store.record(db, func() { r.store.appointments[prev.ID] = prev })
	return nil
}

func (r memAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev, ok := r.store.appointments[id]
	if !ok || prev.Status != from {
		return 0, nil
	}
	row := prev
	row.Status = to
	r.store.appointments[id] = row
	r.store.record(db, func() { r.store.appointments[id] = prev })
	return 1, nil
}

func (r memAppointmentRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev, ok := r.store.appointments[id]
	if !ok {
		return 0, nil
	}
	delete(r.store.appointments, id)
	r.store.record(db, func() { r.store.appointments[id] = prev })
	return 1, nil
}

func (r memAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failAppointmentRead != nil {
		return nil, r.store.failAppointmentRead
	}
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, nil
	}
	a = r.store.hydrate(a)
	return &a, nil
}

func (r memAppointmentRepo) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	// Widen the read-then-write window for the concurrency tests.
	runtime.Gosched()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	day := scheduling.Date(date)
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(day) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QueueNumber < out[j].QueueNumber })
	return out, nil
}

func (r memAppointmentRepo) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Date != nil && !a.AppointmentDate.Equal(scheduling.Date(*filter.Date)) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, r.store.hydrate(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.Before(out[j].AppointmentDate)
		}
		if out[i].DoctorID != out[j].DoctorID {
			return out[i].DoctorID.String() < out[j].DoctorID.String()
		}
		return out[i].QueueNumber < out[j].QueueNumber
	})
	return out, nil
}

func (r memAppointmentRepo) LockScope(db *gorm.DB, doctorID uuid.UUID, date time.Time) error {
	atomic.AddInt64(&r.store.scopeLocks, 1)
	return nil
}

// Audit logs

type memAuditRepo struct{ store *memStore }

func (r memAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failAudit != nil {
		return r.store.failAudit
	}
	r.store.nextAuditID++
	log.ID = r.store.nextAuditID
	log.CreatedAt = time.Now().UTC()
	r.store.audits = append(r.store.audits, *log)
	n := len(r.store.audits)
	r.store.record(db, func() { r.store.audits = r.store.audits[:n-1] })
	return nil
}

func (r memAuditRepo) FindByEntity(db *gorm.DB, entityName string, entityID string) ([]entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.AuditLog
	for _, l := range r.store.audits {
		if l.EntityName == entityName && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Queue board cache

type fakeQueueCache struct {
	mu          sync.Mutex
	boards      map[string][]byte
	invalidated []string
	fills       int
}

func newFakeQueueCache() *fakeQueueCache {
	return &fakeQueueCache{boards: make(map[string][]byte)}
}

func (c *fakeQueueCache) Load(ctx context.Context, date time.Time, fill func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	key := scheduling.FormatDate(date)
	c.mu.Lock()
	if payload, ok := c.boards[key]; ok {
		c.mu.Unlock()
		return payload, nil
	}
	c.fills++
	c.mu.Unlock()

	payload, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.boards[key] = payload
	c.mu.Unlock()
	return payload, nil
}

func (c *fakeQueueCache) Invalidate(ctx context.Context, dates ...time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range dates {
		key := scheduling.FormatDate(d)
		delete(c.boards, key)
		c.invalidated = append(c.invalidated, key)
	}
}

func (c *fakeQueueCache) invalidations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

// Notifier

type fakeNotifier struct {
	events chan service.AppointmentEvent
	err    error
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{events: make(chan service.AppointmentEvent, 64), err: err}
}

func (n *fakeNotifier) Publish(ctx context.Context, event service.AppointmentEvent) error {
	n.events <- event
	return n.err
}

// fixture wires the usecases against one memStore.

type fixture struct {
	store        *memStore
	cache        *fakeQueueCache
	notifier     *fakeNotifier
	locker       *service.ScopeLocker
	appointments AppointmentUsecase
	queue        QueueUsecase
	availability DoctorAvailabilityUsecase
}

// monday is 2025-01-06, a Monday.
var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func newFixture(notifyErr error) *fixture {
	return newFixtureAt(notifyErr, func() time.Time { return monday.Add(7 * time.Hour) })
}

func newFixtureAt(notifyErr error, now func() time.Time) *fixture {
	log := testLogger()
	store := newMemStore()
	cache := newFakeQueueCache()
	notifier := newFakeNotifier(notifyErr)
	locker := service.NewScopeLocker(log)

	tx := memTransactor{store: store}
	doctorRepo := memDoctorRepo{store: store}
	appointmentRepo := memAppointmentRepo{store: store}
	patientRepo := memPatientRepo{store: store}
	auditRepo := memAuditRepo{store: store}
	auditService := service.NewAuditService(log, auditRepo)
	engine := scheduling.NewEngine(scheduling.Policy{})

	return &fixture{
		store:    store,
		cache:    cache,
		notifier: notifier,
		locker:   locker,
		appointments: NewAppointmentUsecase(log, tx, locker, doctorRepo, appointmentRepo, patientRepo, auditRepo,
			engine, auditService, cache, notifier),
		queue:        NewQueueUsecase(log, tx, locker, appointmentRepo, auditService, cache, now),
		availability: NewDoctorAvailabilityUsecase(log, tx, doctorRepo, appointmentRepo, 30, now),
	}
}

func (f *fixture) close() { f.locker.Stop() }

func (f *fixture) mondayDoctor() entity.Doctor {
	return f.store.addDoctor(entity.Doctor{
		Name:           "Dr. Rahma",
		Specialization: "General",
		Fees:           decimal.NewFromInt(150000),
		Schedule:       entity.WeeklySchedule{"MONDAY": {"09:00AM-12:00PM"}},
		IsAvailable:    true,
	})
}
