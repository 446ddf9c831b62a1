package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-frontdesk/internal/converter"
	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"
	"clinic-frontdesk/internal/domain/repository"
	"clinic-frontdesk/internal/scheduling"
	"clinic-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	auditEntityAppointment = "appointment"
	auditEntityPatient     = "patient"

	// Timeout for the detached notification publish
	notifyTimeout = 5 * time.Second
)

type AppointmentUsecase interface {
	Schedule(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Edit(ctx context.Context, id uuid.UUID, req *dto.EditAppointmentRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointmentsByDate(ctx context.Context, date string) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error)
	GetAppointmentHistory(ctx context.Context, id uuid.UUID) (*dto.AuditLogListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	tx              repository.Transactor
	scopes          *scopeRunner
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	auditRepo       repository.AuditLogRepository
	engine          *scheduling.Engine
	auditService    service.AuditService
	queueCache      service.QueueBoardCache
	notifier        service.Notifier
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	locker *service.ScopeLocker,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	auditRepo repository.AuditLogRepository,
	engine *scheduling.Engine,
	auditService service.AuditService,
	queueCache service.QueueBoardCache,
	notifier service.Notifier,
) AppointmentUsecase {
	return &appointmentUsecase{
		log: log,
		tx:  tx,
		scopes: &scopeRunner{
			log:             log,
			tx:              tx,
			locker:          locker,
			appointmentRepo: appointmentRepo,
		},
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		auditRepo:       auditRepo,
		engine:          engine,
		auditService:    auditService,
		queueCache:      queueCache,
		notifier:        notifier,
	}
}

// Schedule books a slot for a patient with a doctor on a calendar date.
//
// Flow (under the scope lock, in one transaction):
// 1. Load the doctor and every appointment of the scope
// 2. Run the availability engine (availability, working hours, conflicts)
// 3. Find or create the patient by phone number
// 4. Insert the appointment with the next queue number and the doctor's fee
// 5. Write the audit row
//
// The queue board cache and the notifier are touched only after commit.
func (u *appointmentUsecase) Schedule(ctx context.Context, req *dto.ScheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, visitType, err := validateScheduleRequest(req)
	if err != nil {
		return nil, err
	}

	var created entity.Appointment
	err = u.scopes.run(ctx, []scope{{doctorID: req.DoctorID, date: date}}, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
		if err != nil {
			return storeErr("find doctor", err)
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		scopeAppointments, err := u.appointmentRepo.FindByDoctorAndDate(tx, doctor.ID, date)
		if err != nil {
			return storeErr("load scope", err)
		}
		occupants := entity.Occupants(scopeAppointments)

		decision, err := u.engine.Check(doctor.Availability(), date, req.Slot, occupants, uuid.Nil)
		if err != nil {
			return err
		}

		patient, err := u.findOrCreatePatient(ctx, tx, patientFromScheduleRequest(req))
		if err != nil {
			return err
		}

		created = entity.Appointment{
			DoctorID:        doctor.ID,
			PatientID:       patient.ID,
			AppointmentDate: date,
			Slot:            decision.Slot.String(),
			QueueNumber:     scheduling.NextQueueNumber(occupants),
			Status:          entity.AppointmentStatusPending,
			VisitType:       visitType,
			PaymentStatus:   entity.PaymentStatusUnpaid,
			Fee:             doctor.Fees,
		}
		if err := u.appointmentRepo.Create(tx, &created); err != nil {
			return writeErr("create appointment", err)
		}

		if err := u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentCreate,
			auditEntityAppointment, created.ID.String(), appointmentAuditValue(&created)); err != nil {
			return storeErr("write audit log", err)
		}

		created.Doctor = *doctor
		created.Patient = *patient
		return nil
	})
	if err != nil {
		logOutcome(u.log, "schedule appointment", err)
		return nil, err
	}

	u.log.Infof("Appointment scheduled: id=%s, doctor=%s, date=%s, slot=%s, queue=%d",
		created.ID, created.DoctorID, scheduling.FormatDate(date), created.Slot, created.QueueNumber)

	u.invalidateBoards(ctx, date)
	u.notifyScheduled(&created)

	return converter.AppointmentToResponse(&created), nil
}

// Edit changes any subset of an appointment's fields. The slot is always
// re-validated against the target date, excluding the appointment itself.
// Moving to another date takes the next queue number of that date. Completed
// and cancelled appointments keep their date and slot.
func (u *appointmentUsecase) Edit(ctx context.Context, id uuid.UUID, req *dto.EditAppointmentRequest) (*dto.AppointmentResponse, error) {
	changes, err := validateEditRequest(req)
	if err != nil {
		return nil, err
	}

	targets := func(current *entity.Appointment) []time.Time {
		if changes.date != nil {
			return []time.Time{*changes.date}
		}
		return nil
	}

	var (
		updated  entity.Appointment
		previous entity.Appointment
	)
	err = u.scopes.runForAppointment(ctx, id, targets, func(tx *gorm.DB, appointment *entity.Appointment) error {
		previous = *appointment

		if changes.status != nil && !appointment.CanTransitionTo(*changes.status) {
			return ErrInvalidTransition
		}

		targetDate := scheduling.Date(appointment.AppointmentDate)
		if changes.date != nil {
			targetDate = *changes.date
		}
		checkSlot := appointment.Slot
		if req.Slot != nil {
			checkSlot = *req.Slot
		}
		dateChanged := !targetDate.Equal(scheduling.Date(appointment.AppointmentDate))

		// Completed and cancelled appointments stay where they are
		slot := appointment.Slot
		if appointment.Status.IsTerminal() {
			if dateChanged || !sameSlot(checkSlot, appointment.Slot) {
				return ErrTerminalStatus
			}
		} else {
			scopeAppointments, err := u.appointmentRepo.FindByDoctorAndDate(tx, appointment.DoctorID, targetDate)
			if err != nil {
				return storeErr("load scope", err)
			}
			occupants := entity.Occupants(scopeAppointments)

			decision, err := u.engine.Check(appointment.Doctor.Availability(), targetDate, checkSlot, occupants, appointment.ID)
			if err != nil {
				return err
			}
			slot = decision.Slot.String()

			if dateChanged {
				appointment.QueueNumber = scheduling.NextQueueNumber(withoutAppointment(occupants, appointment.ID))
			}
		}

		if req.PatientPhoneNumber != nil {
			patient, err := u.upsertPatient(ctx, tx, req)
			if err != nil {
				return err
			}
			appointment.PatientID = patient.ID
			appointment.Patient = *patient
		}

		appointment.AppointmentDate = targetDate
		appointment.Slot = slot
		if changes.visitType != nil {
			appointment.VisitType = *changes.visitType
		}
		if changes.status != nil {
			appointment.Status = *changes.status
		}
		if changes.paymentStatus != nil {
			appointment.PaymentStatus = *changes.paymentStatus
		}

		if err := u.appointmentRepo.Update(tx, appointment); err != nil {
			return writeErr("update appointment", err)
		}

		if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentUpdate,
			auditEntityAppointment, appointment.ID.String(), appointmentAuditValue(&previous), appointmentAuditValue(appointment)); err != nil {
			return storeErr("write audit log", err)
		}

		updated = *appointment
		return nil
	})
	if err != nil {
		logOutcome(u.log, "edit appointment "+id.String(), err)
		return nil, err
	}

	u.log.Infof("Appointment updated: id=%s, date=%s, slot=%s, queue=%d, status=%s",
		updated.ID, scheduling.FormatDate(updated.AppointmentDate), updated.Slot, updated.QueueNumber, updated.Status)

	u.invalidateBoards(ctx, previous.AppointmentDate, updated.AppointmentDate)
	return converter.AppointmentToResponse(&updated), nil
}

// Reschedule moves an appointment to a new date and slot and gives it the
// next queue number of the target scope. Only pending appointments move.
func (u *appointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	if strings.TrimSpace(req.AppointmentDate) == "" || strings.TrimSpace(req.Slot) == "" {
		return nil, ErrMissingRequiredField
	}
	date, err := parseDate("appointment_date", req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	var (
		updated  entity.Appointment
		previous entity.Appointment
	)
	targets := func(*entity.Appointment) []time.Time { return []time.Time{date} }
	err = u.scopes.runForAppointment(ctx, id, targets, func(tx *gorm.DB, appointment *entity.Appointment) error {
		previous = *appointment
		if appointment.Status.IsTerminal() {
			return ErrTerminalStatus
		}

		scopeAppointments, err := u.appointmentRepo.FindByDoctorAndDate(tx, appointment.DoctorID, date)
		if err != nil {
			return storeErr("load scope", err)
		}
		occupants := entity.Occupants(scopeAppointments)

		decision, err := u.engine.Check(appointment.Doctor.Availability(), date, req.Slot, occupants, appointment.ID)
		if err != nil {
			return err
		}

		appointment.AppointmentDate = date
		appointment.Slot = decision.Slot.String()
		appointment.QueueNumber = scheduling.NextQueueNumber(withoutAppointment(occupants, appointment.ID))

		if err := u.appointmentRepo.Update(tx, appointment); err != nil {
			return writeErr("reschedule appointment", err)
		}

		if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentReschedule,
			auditEntityAppointment, appointment.ID.String(), appointmentAuditValue(&previous), appointmentAuditValue(appointment)); err != nil {
			return storeErr("write audit log", err)
		}

		updated = *appointment
		return nil
	})
	if err != nil {
		logOutcome(u.log, "reschedule appointment "+id.String(), err)
		return nil, err
	}

	u.log.Infof("Appointment rescheduled: id=%s, from=%s %s, to=%s %s, queue=%d",
		updated.ID, scheduling.FormatDate(previous.AppointmentDate), previous.Slot,
		scheduling.FormatDate(updated.AppointmentDate), updated.Slot, updated.QueueNumber)

	u.invalidateBoards(ctx, previous.AppointmentDate, updated.AppointmentDate)
	return converter.AppointmentToResponse(&updated), nil
}

// ChangeStatus moves a PENDING appointment to COMPLETED or CANCELLED.
// Setting the status an appointment already has succeeds without a write.
func (u *appointmentUsecase) ChangeStatus(ctx context.Context, id uuid.UUID, req *dto.ChangeStatusRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		result  entity.Appointment
		changed bool
	)
	err := u.scopes.runForAppointment(ctx, id, nil, func(tx *gorm.DB, appointment *entity.Appointment) error {
		if appointment.Status == status {
			result = *appointment
			return nil
		}
		if !appointment.CanTransitionTo(status) {
			return ErrInvalidTransition
		}

		rows, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, appointment.Status, status)
		if err != nil {
			return storeErr("update status", err)
		}
		if rows == 0 {
			return ErrInvalidTransition
		}

		if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentStatus,
			auditEntityAppointment, appointment.ID.String(), string(appointment.Status), string(status)); err != nil {
			return storeErr("write audit log", err)
		}

		appointment.Status = status
		result = *appointment
		changed = true
		return nil
	})
	if err != nil {
		logOutcome(u.log, "change status of appointment "+id.String(), err)
		return nil, err
	}

	if changed {
		u.log.Infof("Appointment status changed: id=%s, status=%s", result.ID, result.Status)
		u.invalidateBoards(ctx, result.AppointmentDate)
	}
	return converter.AppointmentToResponse(&result), nil
}

// Delete removes an appointment. Its queue number is not reused because the
// scope maximum only ever grows with new bookings.
func (u *appointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted entity.Appointment
	err := u.scopes.runForAppointment(ctx, id, nil, func(tx *gorm.DB, appointment *entity.Appointment) error {
		rows, err := u.appointmentRepo.Delete(tx, appointment.ID)
		if err != nil {
			return storeErr("delete appointment", err)
		}
		if rows == 0 {
			return ErrAppointmentNotFound
		}

		if err := u.auditService.LogDelete(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentDelete,
			auditEntityAppointment, appointment.ID.String(), appointmentAuditValue(appointment)); err != nil {
			return storeErr("write audit log", err)
		}

		deleted = *appointment
		return nil
	})
	if err != nil {
		logOutcome(u.log, "delete appointment "+id.String(), err)
		return err
	}

	u.log.Infof("Appointment deleted: id=%s, doctor=%s, date=%s", deleted.ID, deleted.DoctorID, scheduling.FormatDate(deleted.AppointmentDate))
	u.invalidateBoards(ctx, deleted.AppointmentDate)
	return nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.tx.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, storeErr("find appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

// GetAppointmentsByDate lists every doctor's appointments of one date,
// ordered by doctor then queue number.
func (u *appointmentUsecase) GetAppointmentsByDate(ctx context.Context, date string) (*dto.AppointmentListResponse, error) {
	day, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(u.tx.Conn(ctx), entity.AppointmentFilter{Date: &day})
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", date, err)
		return nil, storeErr("list appointments", err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetDoctorAppointments lists a doctor's appointments, optionally for one date.
func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error) {
	filter := entity.AppointmentFilter{DoctorID: &doctorID}
	if strings.TrimSpace(date) != "" {
		day, err := parseDate("date", date)
		if err != nil {
			return nil, err
		}
		filter.Date = &day
	}

	db := u.tx.Conn(ctx)
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storeErr("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointments, err := u.appointmentRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments of doctor %s: %+v", doctorID, err)
		return nil, storeErr("list appointments", err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetAppointmentHistory returns the audit trail of an appointment, oldest first.
// The trail outlives the appointment itself.
func (u *appointmentUsecase) GetAppointmentHistory(ctx context.Context, id uuid.UUID) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditRepo.FindByEntity(u.tx.Conn(ctx), auditEntityAppointment, id.String())
	if err != nil {
		u.log.Warnf("Failed to load history of appointment %s: %+v", id, err)
		return nil, storeErr("load history", err)
	}
	if len(logs) == 0 {
		if _, err := u.GetAppointment(ctx, id); err != nil {
			return nil, err
		}
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

// findOrCreatePatient reuses the patient registered under the phone number.
func (u *appointmentUsecase) findOrCreatePatient(ctx context.Context, tx *gorm.DB, candidate *entity.Patient) (*entity.Patient, error) {
	existing, err := u.patientRepo.FindByPhone(tx, candidate.PhoneNumber)
	if err != nil {
		return nil, storeErr("find patient", err)
	}
	if existing != nil {
		return existing, nil
	}

	if err := u.patientRepo.Create(tx, candidate); err != nil {
		return nil, storeErr("create patient", err)
	}
	if err := u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionPatientCreate,
		auditEntityPatient, candidate.ID.String(), candidate.PhoneNumber); err != nil {
		return nil, storeErr("write audit log", err)
	}
	return candidate, nil
}

// upsertPatient merges the patient fields present in an edit into the record
// keyed by the phone number, creating it with defaults when missing.
func (u *appointmentUsecase) upsertPatient(ctx context.Context, tx *gorm.DB, req *dto.EditAppointmentRequest) (*entity.Patient, error) {
	phone := strings.TrimSpace(*req.PatientPhoneNumber)
	existing, err := u.patientRepo.FindByPhone(tx, phone)
	if err != nil {
		return nil, storeErr("find patient", err)
	}

	if existing == nil {
		patient := &entity.Patient{
			Name:        "Unknown",
			PhoneNumber: phone,
			Gender:      entity.GenderOther,
		}
		mergePatient(patient, req)
		return u.findOrCreatePatient(ctx, tx, patient)
	}

	before := *existing
	mergePatient(existing, req)
	if samePatientDetails(existing, &before) {
		return existing, nil
	}

	if err := u.patientRepo.Update(tx, existing); err != nil {
		return nil, storeErr("update patient", err)
	}
	if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionPatientUpdate,
		auditEntityPatient, existing.ID.String(), patientAuditValue(&before), patientAuditValue(existing)); err != nil {
		return nil, storeErr("write audit log", err)
	}
	return existing, nil
}

func (u *appointmentUsecase) invalidateBoards(ctx context.Context, dates ...time.Time) {
	if u.queueCache == nil {
		return
	}
	u.queueCache.Invalidate(ctx, dates...)
}

// notifyScheduled publishes from a detached goroutine; a failure is only logged.
func (u *appointmentUsecase) notifyScheduled(appointment *entity.Appointment) {
	if u.notifier == nil {
		return
	}

	event := service.AppointmentEvent{
		Type:          service.EventAppointmentScheduled,
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		DoctorName:    appointment.Doctor.Name,
		PatientName:   appointment.Patient.Name,
		PatientPhone:  appointment.Patient.PhoneNumber,
		Date:          scheduling.FormatDate(appointment.AppointmentDate),
		Slot:          appointment.Slot,
		QueueNumber:   appointment.QueueNumber,
		OccurredAt:    time.Now().UTC(),
	}
	if appointment.Patient.Email != nil {
		event.PatientEmail = *appointment.Patient.Email
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := u.notifier.Publish(ctx, event); err != nil {
			u.log.Warnf("Failed to notify about appointment %s (non-fatal): %+v", event.AppointmentID, err)
		}
	}()
}

type editChanges struct {
	date          *time.Time
	visitType     *entity.VisitType
	status        *entity.AppointmentStatus
	paymentStatus *entity.PaymentStatus
}

func validateScheduleRequest(req *dto.ScheduleAppointmentRequest) (time.Time, entity.VisitType, error) {
	if req.DoctorID == uuid.Nil {
		return time.Time{}, "", validationErr("doctor_id is required")
	}
	if strings.TrimSpace(req.AppointmentDate) == "" || strings.TrimSpace(req.Slot) == "" {
		return time.Time{}, "", ErrMissingRequiredField
	}
	required := []struct{ field, value string }{
		{"patient_name", req.PatientName},
		{"patient_phone_number", req.PatientPhoneNumber},
		{"patient_issue", req.PatientIssue},
		{"patient_address", req.PatientAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return time.Time{}, "", validationErr("%s is required", r.field)
		}
	}
	if req.PatientAge <= 0 {
		return time.Time{}, "", validationErr("patient_age is required")
	}
	if !entity.Gender(req.PatientGender).Valid() {
		return time.Time{}, "", validationErr("patient_gender must be one of MALE FEMALE OTHER")
	}

	visitType := entity.VisitTypeAppointment
	if req.VisitType != "" {
		visitType = entity.VisitType(req.VisitType)
		if !visitType.Valid() {
			return time.Time{}, "", validationErr("visit_type must be one of APPOINTMENT WALKIN EMERGENCY")
		}
	}

	date, err := parseDate("appointment_date", req.AppointmentDate)
	if err != nil {
		return time.Time{}, "", err
	}
	return date, visitType, nil
}

func validateEditRequest(req *dto.EditAppointmentRequest) (editChanges, error) {
	var changes editChanges

	if req.AppointmentDate != nil {
		date, err := parseDate("appointment_date", *req.AppointmentDate)
		if err != nil {
			return changes, err
		}
		changes.date = &date
	}
	if req.VisitType != nil {
		v := entity.VisitType(*req.VisitType)
		if !v.Valid() {
			return changes, validationErr("visit_type must be one of APPOINTMENT WALKIN EMERGENCY")
		}
		changes.visitType = &v
	}
	if req.Status != nil {
		s := entity.AppointmentStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !s.Valid() {
			return changes, ErrInvalidStatus
		}
		changes.status = &s
	}
	if req.PaymentStatus != nil {
		p := entity.PaymentStatus(*req.PaymentStatus)
		if !p.Valid() {
			return changes, validationErr("payment_status must be one of UNPAID PAID")
		}
		changes.paymentStatus = &p
	}
	if req.PatientPhoneNumber != nil && strings.TrimSpace(*req.PatientPhoneNumber) == "" {
		return changes, validationErr("patient_phone_number must not be empty")
	}
	if req.PatientGender != nil && !entity.Gender(*req.PatientGender).Valid() {
		return changes, validationErr("patient_gender must be one of MALE FEMALE OTHER")
	}
	return changes, nil
}

func patientFromScheduleRequest(req *dto.ScheduleAppointmentRequest) *entity.Patient {
	patient := &entity.Patient{
		Name:        strings.TrimSpace(req.PatientName),
		PhoneNumber: strings.TrimSpace(req.PatientPhoneNumber),
		Issue:       req.PatientIssue,
		Address:     req.PatientAddress,
		Age:         req.PatientAge,
		Gender:      entity.Gender(req.PatientGender),
	}
	if email := strings.TrimSpace(req.PatientEmail); email != "" {
		patient.Email = &email
	}
	return patient
}

func mergePatient(patient *entity.Patient, req *dto.EditAppointmentRequest) {
	if req.PatientName != nil {
		patient.Name = strings.TrimSpace(*req.PatientName)
	}
	if req.PatientEmail != nil {
		email := strings.TrimSpace(*req.PatientEmail)
		patient.Email = &email
	}
	if req.PatientIssue != nil {
		patient.Issue = *req.PatientIssue
	}
	if req.PatientAddress != nil {
		patient.Address = *req.PatientAddress
	}
	if req.PatientAge != nil {
		patient.Age = *req.PatientAge
	}
	if req.PatientGender != nil {
		patient.Gender = entity.Gender(*req.PatientGender)
	}
}

// samePatientDetails compares two patient records field by field, emails by value.
func samePatientDetails(a, b *entity.Patient) bool {
	if (a.Email == nil) != (b.Email == nil) {
		return false
	}
	if a.Email != nil && *a.Email != *b.Email {
		return false
	}
	x, y := *a, *b
	x.Email, y.Email = nil, nil
	return x == y
}

// sameSlot compares two slot strings by the interval they describe.
func sameSlot(a, b string) bool {
	if a == b {
		return true
	}
	ra, err := scheduling.ParseRange(a)
	if err != nil {
		return false
	}
	rb, err := scheduling.ParseRange(b)
	if err != nil {
		return false
	}
	return ra == rb
}

func withoutAppointment(occupants []scheduling.Occupant, id uuid.UUID) []scheduling.Occupant {
	out := make([]scheduling.Occupant, 0, len(occupants))
	for _, o := range occupants {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func appointmentAuditValue(a *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"doctor_id":        a.DoctorID.String(),
		"patient_id":       a.PatientID.String(),
		"appointment_date": scheduling.FormatDate(a.AppointmentDate),
		"slot":             a.Slot,
		"queue_number":     a.QueueNumber,
		"status":           string(a.Status),
		"visit_type":       string(a.VisitType),
		"payment_status":   string(a.PaymentStatus),
	}
}

func patientAuditValue(p *entity.Patient) map[string]interface{} {
	return map[string]interface{}{
		"name":    p.Name,
		"issue":   p.Issue,
		"address": p.Address,
		"age":     p.Age,
		"gender":  string(p.Gender),
	}
}
