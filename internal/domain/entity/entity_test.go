package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusPending}

	a.Confirm()
	assert.Equal(t, AppointmentStatusConfirmed, a.Status)

	a.Complete()
	assert.True(t, a.IsCompleted())

	a.Cancel()
	assert.True(t, a.IsCancelled())
}

func TestConsultationIsParticipant(t *testing.T) {
	patient := uuid.New()
	doctor := uuid.New()
	c := &Consultation{PatientID: patient, DoctorID: doctor}

	assert.True(t, c.IsParticipant(patient))
	assert.True(t, c.IsParticipant(doctor))
	assert.False(t, c.IsParticipant(uuid.New()))
}

func TestChatChannelHasMember(t *testing.T) {
	member := uuid.New()
	channel := &ChatChannel{
		Members: []ChatChannelMember{{UserID: member}},
	}

	assert.True(t, channel.HasMember(member))
	assert.False(t, channel.HasMember(uuid.New()))
}

func TestEmailVerificationIsExpired(t *testing.T) {
	now := time.Now()
	v := &EmailVerification{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, v.IsExpired(now))
	assert.True(t, v.IsExpired(now.Add(2*time.Minute)))
}

func TestJSONValueAndScan(t *testing.T) {
	j := JSON{"status": "pending", "count": float64(3)}

	value, err := j.Value()
	assert.NoError(t, err)

	var scanned JSON
	assert.NoError(t, scanned.Scan(value))
	assert.Equal(t, j, scanned)

	var empty JSON
	v, err := empty.Value()
	assert.NoError(t, err)
	assert.Nil(t, v)

	var fromNil JSON
	assert.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}
