package converter

import (
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
)

// DiagnosisSessionToResponse converts a DiagnosisSession entity to its API view
func DiagnosisSessionToResponse(session *entity.DiagnosisSession) *dto.DiagnosisSessionResponse {
	if session == nil {
		return nil
	}

	response := &dto.DiagnosisSessionResponse{
		ID:        session.ID,
		PatientID: session.PatientID,
		Status:    string(session.Status),
		Summary:   session.Summary,
		CreatedAt: session.CreatedAt,
	}

	for _, message := range session.Messages {
		resp := DiagnosisMessageToResponse(&message)
		if resp != nil {
			response.Messages = append(response.Messages, *resp)
		}
	}

	return response
}

func DiagnosisSessionsToResponses(sessions []entity.DiagnosisSession) []dto.DiagnosisSessionResponse {
	responses := make([]dto.DiagnosisSessionResponse, len(sessions))
	for i, session := range sessions {
		resp := DiagnosisSessionToResponse(&session)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// DiagnosisMessageToResponse converts a DiagnosisMessage entity to its API
// view, lifting the stored engine result back into structured fields.
func DiagnosisMessageToResponse(message *entity.DiagnosisMessage) *dto.DiagnosisMessageResponse {
	if message == nil {
		return nil
	}

	response := &dto.DiagnosisMessageResponse{
		ID:        message.ID,
		SessionID: message.SessionID,
		Role:      string(message.Role),
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}

	if message.Result != nil {
		if triage, ok := message.Result["triage_level"].(string); ok {
			response.TriageLevel = triage
		}
		if conditions, ok := message.Result["conditions"].([]interface{}); ok {
			for _, c := range conditions {
				condition, ok := c.(map[string]interface{})
				if !ok {
					continue
				}
				name, _ := condition["name"].(string)
				probability, _ := condition["probability"].(float64)
				response.Conditions = append(response.Conditions, dto.DiagnosisConditionResponse{
					Name:        name,
					Probability: probability,
				})
			}
		}
	}

	return response
}

func DiagnosisMessagesToResponses(messages []entity.DiagnosisMessage) []dto.DiagnosisMessageResponse {
	responses := make([]dto.DiagnosisMessageResponse, len(messages))
	for i, message := range messages {
		resp := DiagnosisMessageToResponse(&message)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
