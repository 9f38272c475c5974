package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/infrastructure/storage"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound     = errors.New("medical record not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrRecordForbidden    = errors.New("no access to this medical record")
	ErrNotRecordAuthor    = errors.New("only the authoring doctor or an admin can modify this record")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum allowed size")
)

const maxAttachmentSize = 25 << 20 // 25 MiB

type MedicalRecordUsecase interface {
	Create(ctx context.Context, authorID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.MedicalRecordResponse, error)
	List(ctx context.Context, userID uuid.UUID, role string, patientID *uuid.UUID, recordType string, limit, offset int) (*dto.MedicalRecordListResponse, error)
	Update(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error
	AddAttachment(ctx context.Context, userID uuid.UUID, role string, recordID uuid.UUID, filename, contentType string, size int64, r io.Reader) (*dto.AttachmentResponse, error)
}

type medicalRecordUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	recordRepo   repository.MedicalRecordRepository
	userRepo     repository.UserRepository
	fileRepo     repository.FileObjectRepository
	store        *storage.LocalStore
	notifier     *Notifier
	realtime     *service.RealtimeService
	auditService service.AuditService
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	userRepo repository.UserRepository,
	fileRepo repository.FileObjectRepository,
	store *storage.LocalStore,
	notifier *Notifier,
	realtime *service.RealtimeService,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:           db,
		log:          log,
		recordRepo:   recordRepo,
		userRepo:     userRepo,
		fileRepo:     fileRepo,
		store:        store,
		notifier:     notifier,
		realtime:     realtime,
		auditService: auditService,
	}
}

func (u *medicalRecordUsecase) Create(ctx context.Context, authorID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	recordDate, err := time.Parse("2006-01-02", req.RecordDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.userRepo.FindByID(tx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	record := &entity.MedicalRecord{
		PatientID:  req.PatientID,
		AuthorID:   authorID,
		RecordType: entity.MedicalRecordType(req.RecordType),
		Title:      req.Title,
		Summary:    req.Summary,
		Details:    req.Details,
		RecordDate: recordDate,
	}
	if err := u.recordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	if err := u.notifier.Notify(tx, req.PatientID, entity.NotificationTypeRecordAdded,
		"New medical record",
		fmt.Sprintf("A new record was added to your file: %s", record.Title),
		entity.JSON{"record_id": record.ID.String()},
	); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &authorID, entity.AuditActionRecordCreate, "medical_record", record.ID.String(), record); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionInsert, record)
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.MedicalRecordResponse, error) {
	record, err := u.recordRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !canSeeRecord(record, userID, role) {
		return nil, ErrRecordForbidden
	}
	return converter.MedicalRecordToResponse(record), nil
}

// List scopes results by role: patients see their own file, doctors see
// records they authored unless they name a patient, admins see everything.
func (u *medicalRecordUsecase) List(ctx context.Context, userID uuid.UUID, role string, patientID *uuid.UUID, recordType string, limit, offset int) (*dto.MedicalRecordListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "record_date desc",
		Limit:   limit,
		Offset:  offset,
	}
	switch role {
	case entity.RoleAdmin:
		if patientID != nil {
			opts = opts.WithFilter("patient_id", *patientID)
		}
	case entity.RoleDoctor, entity.RoleNurse:
		if patientID != nil {
			opts = opts.WithFilter("patient_id", *patientID)
		} else {
			opts = opts.WithFilter("author_id", userID)
		}
	default:
		opts = opts.WithFilter("patient_id", userID)
	}
	if recordType != "" {
		opts = opts.WithFilter("record_type", recordType)
	}

	records, total, err := u.recordRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list medical records: %+v", err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   total,
	}, nil
}

func (u *medicalRecordUsecase) Update(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.recordRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !canModifyRecord(record, userID, role) {
		return nil, ErrNotRecordAuthor
	}

	old := *record
	if req.Title != nil {
		record.Title = *req.Title
	}
	if req.Summary != nil {
		record.Summary = *req.Summary
	}
	if req.Details != nil {
		record.Details = *req.Details
	}

	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionRecordUpdate, "medical_record", record.ID.String(), &old, record); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.publishChange(ctx, service.ActionUpdate, record)
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) Delete(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.recordRepo.FindByID(tx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}
	if !canModifyRecord(record, userID, role) {
		return ErrNotRecordAuthor
	}

	// Attachment objects on disk are removed after the metadata is gone.
	attachments := record.Attachments

	if err := u.recordRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete medical record: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionRecordDelete, "medical_record", record.ID.String(), record); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	for _, attachment := range attachments {
		if err := u.store.Delete(attachment.Bucket, attachment.ObjectName); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			u.log.Warnf("Failed to delete attachment object %s: %+v", attachment.ObjectName, err)
		}
	}

	u.publishChange(ctx, service.ActionDelete, record)
	return nil
}

// AddAttachment stores the upload under a record-scoped object name so two
// records can hold attachments with the same filename.
func (u *medicalRecordUsecase) AddAttachment(ctx context.Context, userID uuid.UUID, role string, recordID uuid.UUID, filename, contentType string, size int64, r io.Reader) (*dto.AttachmentResponse, error) {
	if size > maxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	record, err := u.recordRepo.FindByID(u.db.WithContext(ctx), recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !canModifyRecord(record, userID, role) {
		return nil, ErrNotRecordAuthor
	}

	objectName := fmt.Sprintf("%s/%s", recordID, filename)
	url, written, err := u.store.Upload(entity.BucketAttachments, objectName, io.LimitReader(r, maxAttachmentSize), false)
	if err != nil {
		u.log.Warnf("Failed to upload attachment: %+v", err)
		return nil, err
	}

	file := &entity.FileObject{
		OwnerID:     userID,
		RecordID:    &recordID,
		Bucket:      entity.BucketAttachments,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        written,
		PublicURL:   url,
	}
	if err := u.fileRepo.Create(u.db.WithContext(ctx), file); err != nil {
		u.log.Warnf("Failed to create attachment metadata: %+v", err)
		return nil, err
	}

	return converter.AttachmentToResponse(file), nil
}

func (u *medicalRecordUsecase) publishChange(ctx context.Context, action service.ChangeAction, record *entity.MedicalRecord) {
	event := service.NewChangeEvent(entity.MedicalRecord{}.TableName(), action, record.ID.String(), record)
	if err := u.realtime.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish medical record change: %+v", err)
	}
}

// canSeeRecord: the patient it belongs to, the doctor who wrote it, clinical
// staff, and admins can read a record.
func canSeeRecord(record *entity.MedicalRecord, userID uuid.UUID, role string) bool {
	switch role {
	case entity.RoleAdmin, entity.RoleDoctor, entity.RoleNurse:
		return true
	}
	return record.PatientID == userID
}

// canModifyRecord: only the authoring doctor and admins can change a record.
func canModifyRecord(record *entity.MedicalRecord, userID uuid.UUID, role string) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return role == entity.RoleDoctor && record.AuthorID == userID
}
