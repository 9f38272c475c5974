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
	"telemed-platform/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrConsultationNotFound    = errors.New("consultation not found")
	ErrConsultationExists      = errors.New("a consultation already exists for this appointment")
	ErrAppointmentNotConfirmed = errors.New("consultations can only be scheduled on confirmed appointments")
	ErrNotConsultationParty    = errors.New("not a participant of this consultation")
	ErrConsultationNotActive   = errors.New("consultation is not active")
	ErrConsultationEnded       = errors.New("consultation has already ended")
	ErrOnlyDoctorMayStart      = errors.New("only the doctor can start a consultation")
	ErrOnlyDoctorMayEnd        = errors.New("only the doctor can end a consultation")
)

type ConsultationUsecase interface {
	Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error)
	Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.ConsultationResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, role string, limit, offset int) (*dto.ConsultationListResponse, error)
	Start(ctx context.Context, doctorID uuid.UUID, id uuid.UUID) (*dto.RoomTokenResponse, error)
	Join(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.RoomTokenResponse, error)
	End(ctx context.Context, doctorID uuid.UUID, id uuid.UUID, req *dto.EndConsultationRequest) (*dto.ConsultationResponse, error)
}

type consultationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	consultationRepo repository.ConsultationRepository
	appointmentRepo  repository.AppointmentRepository
	jwtService       *jwt.JWTService
	realtime         *service.RealtimeService
	auditService     service.AuditService
}

func NewConsultationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	consultationRepo repository.ConsultationRepository,
	appointmentRepo repository.AppointmentRepository,
	jwtService *jwt.JWTService,
	realtime *service.RealtimeService,
	auditService service.AuditService,
) ConsultationUsecase {
	return &consultationUsecase{
		db:               db,
		log:              log,
		consultationRepo: consultationRepo,
		appointmentRepo:  appointmentRepo,
		jwtService:       jwtService,
		realtime:         realtime,
		auditService:     auditService,
	}
}

// Create schedules a video room on a confirmed appointment. One consultation
// per appointment; the room name is derived from the consultation id.
func (u *consultationUsecase) Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotAppointmentParty
	}
	if appointment.Status != entity.AppointmentStatusConfirmed {
		return nil, ErrAppointmentNotConfirmed
	}

	existing, err := u.consultationRepo.FindByAppointmentID(tx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConsultationExists
	}

	consultation := &entity.Consultation{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		RoomName:      fmt.Sprintf("consult-%s", uuid.New()),
		Status:        entity.ConsultationStatusScheduled,
		Fee:           req.Fee,
	}
	if err := u.consultationRepo.Create(tx, consultation); err != nil {
		if isDuplicateKeyError(err, "appointment_id") {
			return nil, ErrConsultationExists
		}
		u.log.Warnf("Failed to create consultation: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionInsert, consultation)
	return converter.ConsultationToResponse(consultation), nil
}

func (u *consultationUsecase) Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.ConsultationResponse, error) {
	consultation, err := u.consultationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if role != entity.RoleAdmin && !consultation.IsParticipant(userID) {
		return nil, ErrNotConsultationParty
	}
	return converter.ConsultationToResponse(consultation), nil
}

func (u *consultationUsecase) ListMine(ctx context.Context, userID uuid.UUID, role string, limit, offset int) (*dto.ConsultationListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "created_at desc",
		Limit:   limit,
		Offset:  offset,
	}
	switch role {
	case entity.RoleDoctor:
		opts = opts.WithFilter("doctor_id", userID)
	default:
		opts = opts.WithFilter("patient_id", userID)
	}

	consultations, total, err := u.consultationRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list consultations: %+v", err)
		return nil, err
	}

	return &dto.ConsultationListResponse{
		Consultations: converter.ConsultationsToResponses(consultations),
		Total:         total,
	}, nil
}

// Start activates the room and hands the doctor their room credential.
func (u *consultationUsecase) Start(ctx context.Context, doctorID uuid.UUID, id uuid.UUID) (*dto.RoomTokenResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	consultation, err := u.consultationRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if consultation.DoctorID != doctorID {
		return nil, ErrOnlyDoctorMayStart
	}
	if consultation.IsEnded() {
		return nil, ErrConsultationEnded
	}

	if consultation.Status == entity.ConsultationStatusScheduled {
		now := time.Now()
		consultation.Status = entity.ConsultationStatusActive
		consultation.StartedAt = &now
		if err := u.consultationRepo.Update(tx, consultation); err != nil {
			return nil, err
		}
		if err := u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionConsultationStart, "consultation", consultation.ID.String(), nil, consultation); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionUpdate, consultation)
	return u.roomToken(doctorID, consultation, entity.RoleDoctor)
}

// Join issues a room credential to a participant of an active consultation.
func (u *consultationUsecase) Join(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.RoomTokenResponse, error) {
	consultation, err := u.consultationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if !consultation.IsParticipant(userID) {
		return nil, ErrNotConsultationParty
	}
	if consultation.Status != entity.ConsultationStatusActive {
		return nil, ErrConsultationNotActive
	}

	return u.roomToken(userID, consultation, role)
}

func (u *consultationUsecase) End(ctx context.Context, doctorID uuid.UUID, id uuid.UUID, req *dto.EndConsultationRequest) (*dto.ConsultationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	consultation, err := u.consultationRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if consultation.DoctorID != doctorID {
		return nil, ErrOnlyDoctorMayEnd
	}
	if consultation.IsEnded() {
		return nil, ErrConsultationEnded
	}

	now := time.Now()
	consultation.Status = entity.ConsultationStatusEnded
	consultation.EndedAt = &now
	if req.Notes != "" {
		consultation.Notes = req.Notes
	}
	if err := u.consultationRepo.Update(tx, consultation); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionConsultationEnd, "consultation", consultation.ID.String(), nil, consultation); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionUpdate, consultation)
	return converter.ConsultationToResponse(consultation), nil
}

func (u *consultationUsecase) roomToken(userID uuid.UUID, consultation *entity.Consultation, role string) (*dto.RoomTokenResponse, error) {
	token, err := u.jwtService.GenerateRoomToken(userID, consultation.RoomName, role)
	if err != nil {
		u.log.Warnf("Failed to generate room token: %+v", err)
		return nil, err
	}
	return &dto.RoomTokenResponse{
		RoomName:  consultation.RoomName,
		RoomToken: token,
	}, nil
}

func (u *consultationUsecase) publishChange(ctx context.Context, action service.ChangeAction, consultation *entity.Consultation) {
	event := service.NewChangeEvent(entity.Consultation{}.TableName(), action, consultation.ID.String(), consultation)
	if err := u.realtime.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish consultation change: %+v", err)
	}
}
