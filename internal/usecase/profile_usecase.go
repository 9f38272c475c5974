package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/infrastructure/storage"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedAvatarType = errors.New("unsupported avatar content type")
	ErrAvatarTooLarge        = errors.New("avatar exceeds the maximum allowed size")
)

const maxAvatarSize = 5 << 20 // 5 MiB

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type ProfileUsecase interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, contentType string, size int64, r io.Reader) (*dto.AvatarResponse, error)
	ListDoctors(ctx context.Context, specialization string, limit, offset int) (*dto.DoctorListResponse, error)
}

type profileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	fileRepo           repository.FileObjectRepository
	store              *storage.LocalStore
	auditService       service.AuditService
}

func NewProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	fileRepo repository.FileObjectRepository,
	store *storage.LocalStore,
	auditService service.AuditService,
) ProfileUsecase {
	return &profileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		doctorProfileRepo:  doctorProfileRepo,
		fileRepo:           fileRepo,
		store:              store,
		auditService:       auditService,
	}
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	switch user.RoleName() {
	case entity.RolePatient:
		if err := u.updatePatientProfile(tx, user, req); err != nil {
			return nil, err
		}
	case entity.RoleDoctor:
		if err := u.updateDoctorProfile(tx, user, req); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionProfileUpdate, "user", userID.String(), nil, req); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user, ""), nil
}

func (u *profileUsecase) updatePatientProfile(tx *gorm.DB, user *entity.User, req *dto.UpdateProfileRequest) error {
	profile, err := u.patientProfileRepo.FindByUserID(tx, user.ID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &entity.PatientProfile{UserID: user.ID}
		if err := u.patientProfileRepo.Create(tx, profile); err != nil {
			return err
		}
	}

	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return ErrInvalidDateFormat
		}
		profile.DateOfBirth = &parsed
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.BloodType != nil {
		profile.BloodType = *req.BloodType
	}
	if req.Allergies != nil {
		profile.Allergies = *req.Allergies
	}

	if err := u.patientProfileRepo.Update(tx, profile); err != nil {
		return err
	}
	user.PatientProfile = profile
	return nil
}

func (u *profileUsecase) updateDoctorProfile(tx *gorm.DB, user *entity.User, req *dto.UpdateProfileRequest) error {
	profile, err := u.doctorProfileRepo.FindByUserID(tx, user.ID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrUserNotFound
	}

	if req.Specialization != nil {
		profile.Specialization = *req.Specialization
	}
	if req.Department != nil {
		profile.Department = *req.Department
	}
	if req.Biography != nil {
		profile.Biography = *req.Biography
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		return err
	}
	user.DoctorProfile = profile
	return nil
}

// UploadAvatar stores the image under a per-user object name so a re-upload
// replaces the previous avatar and the public URL stays stable.
func (u *profileUsecase) UploadAvatar(ctx context.Context, userID uuid.UUID, contentType string, size int64, r io.Reader) (*dto.AvatarResponse, error) {
	ext, ok := avatarExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedAvatarType
	}
	if size > maxAvatarSize {
		return nil, ErrAvatarTooLarge
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	objectName := userID.String() + ext
	url, written, err := u.store.Upload(entity.BucketAvatars, objectName, io.LimitReader(r, maxAvatarSize), true)
	if err != nil {
		u.log.Warnf("Failed to upload avatar: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.fileRepo.FindByObject(tx, entity.BucketAvatars, objectName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := u.fileRepo.Delete(tx, existing.ID); err != nil {
			return nil, err
		}
	}

	file := &entity.FileObject{
		OwnerID:     userID,
		Bucket:      entity.BucketAvatars,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        written,
		PublicURL:   url,
	}
	if err := u.fileRepo.Create(tx, file); err != nil {
		return nil, err
	}

	user.AvatarURL = url
	if err := u.userRepo.Update(tx, user); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.AvatarResponse{AvatarURL: url}, nil
}

func (u *profileUsecase) ListDoctors(ctx context.Context, specialization string, limit, offset int) (*dto.DoctorListResponse, error) {
	opts := repository.ListOptions{Limit: limit, Offset: offset}
	if specialization != "" {
		opts = opts.WithFilter("specialization", specialization)
	}

	doctors, total, err := u.doctorProfileRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(doctors),
		Total:   total,
	}, nil
}
