package repository

import (
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileObjectRepository interface {
	Create(db *gorm.DB, file *entity.FileObject) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.FileObject, error)
	FindByObject(db *gorm.DB, bucket, objectName string) (*entity.FileObject, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
