package repository

import (
	"errors"

	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fileObjectRepository struct {
	store[entity.FileObject]
}

func NewFileObjectRepository() domainRepo.FileObjectRepository {
	return &fileObjectRepository{}
}

func (r *fileObjectRepository) Create(db *gorm.DB, file *entity.FileObject) error {
	return r.create(db, file)
}

func (r *fileObjectRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.FileObject, error) {
	return r.findByID(db, id)
}

func (r *fileObjectRepository) FindByObject(db *gorm.DB, bucket, objectName string) (*entity.FileObject, error) {
	var file entity.FileObject
	err := db.Where("bucket = ? AND object_name = ?", bucket, objectName).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (r *fileObjectRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return r.deleteByID(db, id)
}
