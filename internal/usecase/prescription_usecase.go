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
	ErrPrescriptionNotFound  = errors.New("prescription not found")
	ErrNotPrescribingDoctor  = errors.New("only the prescribing doctor can modify a prescription")
	ErrPrescriptionForbidden = errors.New("no access to this prescription")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.PrescriptionResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, role string, status string, limit, offset int) (*dto.PrescriptionListResponse, error)
	Update(ctx context.Context, doctorID uuid.UUID, id uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	userRepo         repository.UserRepository
	notifier         *Notifier
	realtime         *service.RealtimeService
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
	realtime *service.RealtimeService,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		realtime:         realtime,
		auditService:     auditService,
	}
}

func (u *prescriptionUsecase) Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.userRepo.FindByID(tx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	prescription := &entity.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		Instructions:  req.Instructions,
		Status:        entity.PrescriptionStatusActive,
		IssuedAt:      time.Now(),
	}
	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		if isForeignKeyError(err, "appointment") {
			return nil, ErrAppointmentNotFound
		}
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if err := u.notifier.Notify(tx, req.PatientID, entity.NotificationTypePrescriptionIssued,
		"New prescription",
		fmt.Sprintf("You have been prescribed %s", prescription.Medication),
		entity.JSON{"prescription_id": prescription.ID.String()},
	); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &doctorID, entity.AuditActionPrescriptionIssue, "prescription", prescription.ID.String(), prescription); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionInsert, prescription)
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if role != entity.RoleAdmin && prescription.PatientID != userID && prescription.DoctorID != userID {
		return nil, ErrPrescriptionForbidden
	}
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) ListMine(ctx context.Context, userID uuid.UUID, role string, status string, limit, offset int) (*dto.PrescriptionListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "issued_at desc",
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

	prescriptions, total, err := u.prescriptionRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         total,
	}, nil
}

func (u *prescriptionUsecase) Update(ctx context.Context, doctorID uuid.UUID, id uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if prescription.DoctorID != doctorID {
		return nil, ErrNotPrescribingDoctor
	}

	if req.Dosage != nil {
		prescription.Dosage = *req.Dosage
	}
	if req.Instructions != nil {
		prescription.Instructions = *req.Instructions
	}
	if req.Status != nil {
		prescription.Status = entity.PrescriptionStatus(*req.Status)
	}

	if err := u.prescriptionRepo.Update(tx, prescription); err != nil {
		u.log.Warnf("Failed to update prescription: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionUpdate, prescription)
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) publishChange(ctx context.Context, action service.ChangeAction, prescription *entity.Prescription) {
	event := service.NewChangeEvent(entity.Prescription{}.TableName(), action, prescription.ID.String(), prescription)
	if err := u.realtime.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish prescription change: %+v", err)
	}
}
