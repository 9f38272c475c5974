package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/delivery/http/middleware"
	"telemed-platform/internal/usecase"
	"telemed-platform/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, patientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, userID, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) ListMine(ctx context.Context, userID uuid.UUID, role string, status string, limit, offset int) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, userID, role, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentListResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) Confirm(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) Cancel(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, userID, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) Complete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func authedRequest(method, target string, body []byte, userID uuid.UUID, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return req.WithContext(ctx)
}

func TestAppointmentCreateSuccess(t *testing.T) {
	mockUsecase := new(MockAppointmentUsecase)
	h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

	patientID := uuid.New()
	doctorID := uuid.New()
	starts := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	body, err := json.Marshal(dto.CreateAppointmentRequest{
		DoctorID: doctorID,
		StartsAt: starts,
		EndsAt:   starts.Add(30 * time.Minute),
		Reason:   "follow-up",
	})
	require.NoError(t, err)

	mockUsecase.On("Create", mock.Anything, patientID, mock.AnythingOfType("*dto.CreateAppointmentRequest")).
		Return(&dto.AppointmentResponse{ID: uuid.New(), PatientID: patientID, DoctorID: doctorID, Status: "pending"}, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/appointments", body, patientID, "patient"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockUsecase.AssertExpectations(t)
}

func TestAppointmentCreateOverlapConflict(t *testing.T) {
	mockUsecase := new(MockAppointmentUsecase)
	h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

	patientID := uuid.New()
	starts := time.Now().Add(24 * time.Hour)
	body, err := json.Marshal(dto.CreateAppointmentRequest{
		DoctorID: uuid.New(),
		StartsAt: starts,
		EndsAt:   starts.Add(30 * time.Minute),
	})
	require.NoError(t, err)

	mockUsecase.On("Create", mock.Anything, patientID, mock.Anything).
		Return(nil, usecase.ErrAppointmentOverlap)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/appointments", body, patientID, "patient"))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAppointmentCreateRejectsInvalidBody(t *testing.T) {
	mockUsecase := new(MockAppointmentUsecase)
	h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/appointments", []byte("{not json"), uuid.New(), "patient"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockUsecase.AssertNotCalled(t, "Create")
}

func TestAppointmentConfirmForbiddenForNonDoctor(t *testing.T) {
	mockUsecase := new(MockAppointmentUsecase)
	h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

	userID := uuid.New()
	appointmentID := uuid.New()

	mockUsecase.On("Confirm", mock.Anything, userID, appointmentID).
		Return(nil, usecase.ErrOnlyDoctorMayConfirm)

	req := authedRequest(http.MethodPost, "/api/v1/appointments/"+appointmentID.String()+"/confirm", nil, userID, "patient")
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.Confirm(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAppointmentGetNotFound(t *testing.T) {
	mockUsecase := new(MockAppointmentUsecase)
	h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

	userID := uuid.New()
	appointmentID := uuid.New()

	mockUsecase.On("Get", mock.Anything, userID, "patient", appointmentID).
		Return(nil, usecase.ErrAppointmentNotFound)

	req := authedRequest(http.MethodGet, "/api/v1/appointments/"+appointmentID.String(), nil, userID, "patient")
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentListPagination(t *testing.T) {
	mockUsecase := new(MockAppointmentUsecase)
	h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

	userID := uuid.New()
	mockUsecase.On("ListMine", mock.Anything, userID, "doctor", "pending", 10, 20).
		Return(&dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Total: 42}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/appointments?status=pending&limit=10&offset=20", nil, userID, "doctor"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, int64(42), envelope.Meta.Total)
}
