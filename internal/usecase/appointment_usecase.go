package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrAppointmentInPast     = errors.New("appointment must start in the future")
	ErrInvalidTimeRange      = errors.New("appointment end must be after its start")
	ErrAppointmentOverlap    = errors.New("an overlapping appointment with this doctor already exists")
	ErrNotAppointmentParty   = errors.New("not a participant of this appointment")
	ErrInvalidStatusChange   = errors.New("appointment status does not allow this transition")
	ErrOnlyDoctorMayConfirm  = errors.New("only the doctor can confirm an appointment")
	ErrOnlyDoctorMayComplete = errors.New("only the doctor can complete an appointment")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, role string, status string, limit, offset int) (*dto.AppointmentListResponse, error)
	Confirm(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	notifier        *Notifier
	realtime        *service.RealtimeService
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
	realtime *service.RealtimeService,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		realtime:        realtime,
		auditService:    auditService,
	}
}

func (u *appointmentUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, ErrAppointmentInPast
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.userRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	overlap, err := u.appointmentRepo.FindOverlapping(tx, patientID, req.DoctorID, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}
	if overlap != nil {
		return nil, ErrAppointmentOverlap
	}

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Reason:    req.Reason,
		Status:    entity.AppointmentStatusPending,
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isForeignKeyError(err, "patient") || isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.notifier.Notify(tx, doctor.ID, entity.NotificationTypeAppointmentCreated,
		"New appointment request",
		fmt.Sprintf("A patient requested an appointment on %s", appointment.StartsAt.Format(time.RFC1123)),
		entity.JSON{"appointment_id": appointment.ID.String()},
	); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionInsert, appointment)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canSeeAppointment(appointment, userID, role) {
		return nil, ErrNotAppointmentParty
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListMine(ctx context.Context, userID uuid.UUID, role string, status string, limit, offset int) (*dto.AppointmentListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "starts_at desc",
		Limit:   limit,
		Offset:  offset,
	}
	switch role {
	case entity.RoleDoctor:
		opts = opts.WithFilter("doctor_id", userID)
	default:
		opts = opts.WithFilter("patient_id", userID)
	}
	if status != "" {
		opts = opts.WithFilter("status", status)
	}

	appointments, total, err := u.appointmentRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        total,
	}, nil
}

func (u *appointmentUsecase) Confirm(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, userID, id, entity.AppointmentStatusConfirmed)
}

func (u *appointmentUsecase) Cancel(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canSeeAppointment(appointment, userID, role) {
		return nil, ErrNotAppointmentParty
	}
	if appointment.IsCancelled() || appointment.IsCompleted() {
		return nil, ErrInvalidStatusChange
	}

	// Compare-and-set so two concurrent cancels cannot both notify.
	affected, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID,
		entity.AppointmentStatusCancelled,
		entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidStatusChange
	}
	appointment.Cancel()

	counterpart := appointment.DoctorID
	if userID == appointment.DoctorID {
		counterpart = appointment.PatientID
	}
	if err := u.notifier.Notify(tx, counterpart, entity.NotificationTypeAppointmentCancelled,
		"Appointment cancelled",
		fmt.Sprintf("The appointment on %s was cancelled", appointment.StartsAt.Format(time.RFC1123)),
		entity.JSON{"appointment_id": appointment.ID.String()},
	); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(), nil, appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionUpdate, appointment)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Complete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, userID, id, entity.AppointmentStatusCompleted)
}

// transition handles the doctor-only confirm and complete moves.
func (u *appointmentUsecase) transition(ctx context.Context, userID uuid.UUID, id uuid.UUID, target entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != userID {
		if target == entity.AppointmentStatusConfirmed {
			return nil, ErrOnlyDoctorMayConfirm
		}
		return nil, ErrOnlyDoctorMayComplete
	}

	var from entity.AppointmentStatus
	switch target {
	case entity.AppointmentStatusConfirmed:
		from = entity.AppointmentStatusPending
	case entity.AppointmentStatusCompleted:
		from = entity.AppointmentStatusConfirmed
	default:
		return nil, ErrInvalidStatusChange
	}
	if appointment.Status != from {
		return nil, ErrInvalidStatusChange
	}

	affected, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, target, from)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidStatusChange
	}
	appointment.Status = target

	action := entity.AuditActionAppointmentDone
	if target == entity.AppointmentStatusConfirmed {
		action = entity.AuditActionAppointmentConfirm
		if err := u.notifier.Notify(tx, appointment.PatientID, entity.NotificationTypeAppointmentConfirmed,
			"Appointment confirmed",
			fmt.Sprintf("Your appointment on %s was confirmed", appointment.StartsAt.Format(time.RFC1123)),
			entity.JSON{"appointment_id": appointment.ID.String()},
		); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, action, "appointment", appointment.ID.String(), nil, appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionUpdate, appointment)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) publishChange(ctx context.Context, action service.ChangeAction, appointment *entity.Appointment) {
	event := service.NewChangeEvent(entity.Appointment{}.TableName(), action, appointment.ID.String(), appointment)
	if err := u.realtime.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish appointment change: %+v", err)
	}
}

func canSeeAppointment(appointment *entity.Appointment, userID uuid.UUID, role string) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return appointment.PatientID == userID || appointment.DoctorID == userID
}
