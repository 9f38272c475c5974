package repository

import (
	"errors"

	"telemed-platform/internal/domain/entity"
	domainRepo "telemed-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	store[entity.User]
}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return r.create(db, user)
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.findByID(db, id, "DoctorProfile", "PatientProfile")
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return r.save(db, user)
}

func (r *userRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return r.deleteByID(db, id)
}

func (r *userRepository) List(db *gorm.DB, opts domainRepo.ListOptions) ([]entity.User, int64, error) {
	return r.list(db, opts)
}
