package converter

import (
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
)

// MedicalRecordToResponse converts a MedicalRecord entity to its API view
func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	response := &dto.MedicalRecordResponse{
		ID:         record.ID,
		PatientID:  record.PatientID,
		AuthorID:   record.AuthorID,
		RecordType: string(record.RecordType),
		Title:      record.Title,
		Summary:    record.Summary,
		Details:    record.Details,
		RecordDate: record.RecordDate,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}

	for _, attachment := range record.Attachments {
		response.Attachments = append(response.Attachments, dto.AttachmentResponse{
			ID:          attachment.ID,
			ObjectName:  attachment.ObjectName,
			ContentType: attachment.ContentType,
			Size:        attachment.Size,
			PublicURL:   attachment.PublicURL,
		})
	}

	return response
}

// AttachmentToResponse converts a FileObject entity to its attachment view
func AttachmentToResponse(file *entity.FileObject) *dto.AttachmentResponse {
	if file == nil {
		return nil
	}
	return &dto.AttachmentResponse{
		ID:          file.ID,
		ObjectName:  file.ObjectName,
		ContentType: file.ContentType,
		Size:        file.Size,
		PublicURL:   file.PublicURL,
	}
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i, record := range records {
		resp := MedicalRecordToResponse(&record)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
