package usecase

import (
	"context"
	"testing"
	"time"

	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(db, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(db, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) List(db *gorm.DB, opts repository.ListOptions) ([]entity.Appointment, int64, error) {
	args := m.Called(db, opts)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) FindOverlapping(db *gorm.DB, patientID, doctorID uuid.UUID, startsAt, endsAt time.Time) (*entity.Appointment, error) {
	args := m.Called(db, patientID, doctorID, startsAt, endsAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, target entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, id, target, from)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	args := m.Called(db, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) List(db *gorm.DB, opts repository.ListOptions) ([]entity.Notification, int64, error) {
	args := m.Called(db, opts)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	args := m.Called(db, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func newTransitionFixture(t *testing.T) (*MockAppointmentRepository, *MockNotificationRepository, AppointmentUsecase) {
	t.Helper()
	log := quietLogger()
	appointmentRepo := new(MockAppointmentRepository)
	notificationRepo := new(MockNotificationRepository)
	realtime := service.NewRealtimeService(nil, log)
	notifier := NewNotifier(log, notificationRepo, realtime)
	uc := NewAppointmentUsecase(dummyDB(t), log, appointmentRepo, new(MockUserRepository), notifier, realtime, nil)
	return appointmentRepo, notificationRepo, uc
}

func pendingAppointment() *entity.Appointment {
	return &entity.Appointment{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		StartsAt:  time.Now().Add(time.Hour),
		EndsAt:    time.Now().Add(2 * time.Hour),
		Status:    entity.AppointmentStatusPending,
	}
}

// A second cancel can pass the in-memory status check before the first one
// commits. The compare-and-set must then match zero rows and the loser must
// not notify again.
func TestCancelLosesConcurrentRace(t *testing.T) {
	appointmentRepo, notificationRepo, uc := newTransitionFixture(t)
	appointment := pendingAppointment()
	appointmentRepo.On("FindByID", mock.Anything, appointment.ID).Return(appointment, nil)
	appointmentRepo.On("UpdateStatus", mock.Anything, appointment.ID,
		entity.AppointmentStatusCancelled,
		[]entity.AppointmentStatus{entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed},
	).Return(int64(0), nil)

	resp, err := uc.Cancel(context.Background(), appointment.PatientID, entity.RolePatient, appointment.ID)

	require.ErrorIs(t, err, ErrInvalidStatusChange)
	assert.Nil(t, resp)
	notificationRepo.AssertNumberOfCalls(t, "Create", 0)
	appointmentRepo.AssertNumberOfCalls(t, "Update", 0)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	appointmentRepo, notificationRepo, uc := newTransitionFixture(t)
	appointment := pendingAppointment()
	appointment.Status = entity.AppointmentStatusCancelled
	appointmentRepo.On("FindByID", mock.Anything, appointment.ID).Return(appointment, nil)

	_, err := uc.Cancel(context.Background(), appointment.PatientID, entity.RolePatient, appointment.ID)

	require.ErrorIs(t, err, ErrInvalidStatusChange)
	appointmentRepo.AssertNumberOfCalls(t, "UpdateStatus", 0)
	notificationRepo.AssertNumberOfCalls(t, "Create", 0)
}

func TestConfirmLosesConcurrentRace(t *testing.T) {
	appointmentRepo, notificationRepo, uc := newTransitionFixture(t)
	appointment := pendingAppointment()
	appointmentRepo.On("FindByID", mock.Anything, appointment.ID).Return(appointment, nil)
	appointmentRepo.On("UpdateStatus", mock.Anything, appointment.ID,
		entity.AppointmentStatusConfirmed,
		[]entity.AppointmentStatus{entity.AppointmentStatusPending},
	).Return(int64(0), nil)

	resp, err := uc.Confirm(context.Background(), appointment.DoctorID, appointment.ID)

	require.ErrorIs(t, err, ErrInvalidStatusChange)
	assert.Nil(t, resp)
	notificationRepo.AssertNumberOfCalls(t, "Create", 0)
}

func TestCompleteRequiresConfirmedStatus(t *testing.T) {
	appointmentRepo, _, uc := newTransitionFixture(t)
	appointment := pendingAppointment()
	appointmentRepo.On("FindByID", mock.Anything, appointment.ID).Return(appointment, nil)

	_, err := uc.Complete(context.Background(), appointment.DoctorID, appointment.ID)

	require.ErrorIs(t, err, ErrInvalidStatusChange)
	appointmentRepo.AssertNumberOfCalls(t, "UpdateStatus", 0)
}
