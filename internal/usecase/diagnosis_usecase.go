package usecase

import (
	"context"
	"errors"

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
	ErrSessionNotFound = errors.New("diagnosis session not found")
	ErrNotSessionOwner = errors.New("not the owner of this diagnosis session")
	ErrSessionClosed   = errors.New("diagnosis session is closed")
)

type DiagnosisUsecase interface {
	StartSession(ctx context.Context, patientID uuid.UUID, req *dto.StartDiagnosisRequest) (*dto.DiagnosisSessionResponse, error)
	SendSymptoms(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID, req *dto.DiagnosisMessageRequest) (*dto.DiagnosisMessageResponse, error)
	Get(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID) (*dto.DiagnosisSessionResponse, error)
	ListMine(ctx context.Context, patientID uuid.UUID, limit, offset int) (*dto.DiagnosisSessionListResponse, error)
	CloseSession(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID) (*dto.DiagnosisSessionResponse, error)
}

type diagnosisUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	sessionRepo repository.DiagnosisSessionRepository
	messageRepo repository.DiagnosisMessageRepository
	client      service.DiagnosisClient
}

func NewDiagnosisUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	sessionRepo repository.DiagnosisSessionRepository,
	messageRepo repository.DiagnosisMessageRepository,
	client service.DiagnosisClient,
) DiagnosisUsecase {
	return &diagnosisUsecase{
		db:          db,
		log:         log,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		client:      client,
	}
}

func (u *diagnosisUsecase) StartSession(ctx context.Context, patientID uuid.UUID, req *dto.StartDiagnosisRequest) (*dto.DiagnosisSessionResponse, error) {
	session := &entity.DiagnosisSession{
		PatientID: patientID,
		Age:       req.Age,
		Sex:       req.Sex,
		Status:    entity.DiagnosisStatusOpen,
	}
	if err := u.sessionRepo.Create(u.db.WithContext(ctx), session); err != nil {
		u.log.Warnf("Failed to create diagnosis session: %+v", err)
		return nil, err
	}
	return converter.DiagnosisSessionToResponse(session), nil
}

// SendSymptoms records the patient's message, asks the engine for an
// assessment and stores the structured answer alongside. An engine failure
// leaves the session open with the patient message persisted.
func (u *diagnosisUsecase) SendSymptoms(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID, req *dto.DiagnosisMessageRequest) (*dto.DiagnosisMessageResponse, error) {
	session, err := u.ownedSession(ctx, patientID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrSessionClosed
	}

	db := u.db.WithContext(ctx)

	patientMessage := &entity.DiagnosisMessage{
		SessionID: sessionID,
		Role:      entity.DiagnosisRolePatient,
		Content:   req.Symptoms,
	}
	if err := u.messageRepo.Create(db, patientMessage); err != nil {
		u.log.Warnf("Failed to create diagnosis message: %+v", err)
		return nil, err
	}

	result, err := u.client.Assess(ctx, service.DiagnosisRequest{
		Age:      session.Age,
		Sex:      session.Sex,
		Symptoms: req.Symptoms,
	})
	if err != nil {
		u.log.Warnf("Diagnosis assessment failed for session %s: %+v", sessionID, err)
		return nil, err
	}

	conditions := make([]interface{}, 0, len(result.Conditions))
	for _, c := range result.Conditions {
		conditions = append(conditions, map[string]interface{}{
			"name":        c.Name,
			"probability": c.Probability,
		})
	}
	assistantMessage := &entity.DiagnosisMessage{
		SessionID: sessionID,
		Role:      entity.DiagnosisRoleAssistant,
		Content:   result.Advice,
		Result: entity.JSON{
			"conditions":   conditions,
			"triage_level": result.TriageLevel,
		},
	}
	if err := u.messageRepo.Create(db, assistantMessage); err != nil {
		u.log.Warnf("Failed to create assessment message: %+v", err)
		return nil, err
	}

	session.Summary = result.TriageLevel
	if len(result.Conditions) > 0 {
		session.Summary = result.Conditions[0].Name + " (" + result.TriageLevel + ")"
	}
	if err := u.sessionRepo.Update(db, session); err != nil {
		u.log.Warnf("Failed to update session summary: %+v", err)
		return nil, err
	}

	return converter.DiagnosisMessageToResponse(assistantMessage), nil
}

func (u *diagnosisUsecase) Get(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID) (*dto.DiagnosisSessionResponse, error) {
	session, err := u.ownedSession(ctx, patientID, sessionID)
	if err != nil {
		return nil, err
	}

	messages, _, err := u.messageRepo.FindBySession(u.db.WithContext(ctx), sessionID, repository.ListOptions{
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, err
	}
	session.Messages = messages

	return converter.DiagnosisSessionToResponse(session), nil
}

func (u *diagnosisUsecase) ListMine(ctx context.Context, patientID uuid.UUID, limit, offset int) (*dto.DiagnosisSessionListResponse, error) {
	sessions, total, err := u.sessionRepo.List(u.db.WithContext(ctx), repository.ListOptions{
		Filters: map[string]interface{}{"patient_id": patientID},
		OrderBy: "created_at desc",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		u.log.Warnf("Failed to list diagnosis sessions: %+v", err)
		return nil, err
	}

	return &dto.DiagnosisSessionListResponse{
		Sessions: converter.DiagnosisSessionsToResponses(sessions),
		Total:    total,
	}, nil
}

func (u *diagnosisUsecase) CloseSession(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID) (*dto.DiagnosisSessionResponse, error) {
	session, err := u.ownedSession(ctx, patientID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrSessionClosed
	}

	session.Status = entity.DiagnosisStatusClosed
	if err := u.sessionRepo.Update(u.db.WithContext(ctx), session); err != nil {
		u.log.Warnf("Failed to close diagnosis session: %+v", err)
		return nil, err
	}

	return converter.DiagnosisSessionToResponse(session), nil
}

func (u *diagnosisUsecase) ownedSession(ctx context.Context, patientID uuid.UUID, sessionID uuid.UUID) (*entity.DiagnosisSession, error) {
	session, err := u.sessionRepo.FindByID(u.db.WithContext(ctx), sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.PatientID != patientID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}
