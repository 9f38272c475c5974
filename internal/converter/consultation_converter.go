package converter

import (
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
)

// ConsultationToResponse converts a Consultation entity to its API view
func ConsultationToResponse(consultation *entity.Consultation) *dto.ConsultationResponse {
	if consultation == nil {
		return nil
	}

	return &dto.ConsultationResponse{
		ID:            consultation.ID,
		AppointmentID: consultation.AppointmentID,
		PatientID:     consultation.PatientID,
		DoctorID:      consultation.DoctorID,
		RoomName:      consultation.RoomName,
		Status:        string(consultation.Status),
		Fee:           consultation.Fee,
		Notes:         consultation.Notes,
		StartedAt:     consultation.StartedAt,
		EndedAt:       consultation.EndedAt,
		CreatedAt:     consultation.CreatedAt,
	}
}

func ConsultationsToResponses(consultations []entity.Consultation) []dto.ConsultationResponse {
	responses := make([]dto.ConsultationResponse, len(consultations))
	for i, consultation := range consultations {
		resp := ConsultationToResponse(&consultation)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
