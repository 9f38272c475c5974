package usecase

import (
	"context"
	"errors"

	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrCannotAlterSelf    = errors.New("admins cannot change their own role or status")
	ErrDoctorProfileNeeds = errors.New("user has no doctor profile, cannot assign the doctor role")
)

type AdminUsecase interface {
	ListUsers(ctx context.Context, role string, limit, offset int) (*dto.UserListResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	SetUserRole(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req *dto.SetUserRoleRequest) (*dto.UserResponse, error)
	SetUserActive(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req *dto.SetUserActiveRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, adminID uuid.UUID, id uuid.UUID) error
	ListAuditLogs(ctx context.Context, action string, userID *uuid.UUID, limit, offset int) (*dto.AuditLogListResponse, error)
}

type adminUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditRepo         repository.AuditLogRepository
	tokenStore        service.TokenStore
	auditService      service.AuditService
}

func NewAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditRepo repository.AuditLogRepository,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditRepo:         auditRepo,
		tokenStore:        tokenStore,
		auditService:      auditService,
	}
}

func (u *adminUsecase) ListUsers(ctx context.Context, role string, limit, offset int) (*dto.UserListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "created_at desc",
		Limit:   limit,
		Offset:  offset,
	}
	if role != "" {
		roleID := entity.RoleIDByName(role)
		if roleID == 0 {
			return nil, ErrUnknownRole
		}
		opts = opts.WithFilter("role_id", roleID)
	}

	users, total, err := u.userRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: total,
	}, nil
}

func (u *adminUsecase) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user, ""), nil
}

// SetUserRole moves a user to another role. Promoting to doctor requires an
// existing doctor profile since clinical records reference its license.
func (u *adminUsecase) SetUserRole(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req *dto.SetUserRoleRequest) (*dto.UserResponse, error) {
	if adminID == id {
		return nil, ErrCannotAlterSelf
	}
	roleID := entity.RoleIDByName(req.Role)
	if roleID == 0 {
		return nil, ErrUnknownRole
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if roleID == entity.RoleIDDoctor {
		profile, err := u.doctorProfileRepo.FindByUserID(tx, id)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrDoctorProfileNeeds
		}
	}

	oldRole := user.RoleName()
	user.RoleID = roleID
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user role: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionUserRoleChange, "user", id.String(),
		entity.JSON{"role": oldRole}, entity.JSON{"role": req.Role}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Sessions issued under the old role carry stale claims.
	if err := u.tokenStore.RevokeAllUserTokens(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens after role change: %+v", err)
	}

	return converter.UserToResponse(user, ""), nil
}

func (u *adminUsecase) SetUserActive(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req *dto.SetUserActiveRequest) (*dto.UserResponse, error) {
	if adminID == id {
		return nil, ErrCannotAlterSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.IsActive = req.IsActive
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user status: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionUserDeactivate, "user", id.String(),
		nil, entity.JSON{"is_active": *req.IsActive}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if !*req.IsActive {
		if err := u.tokenStore.RevokeAllUserTokens(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke tokens after deactivation: %+v", err)
		}
	}

	return converter.UserToResponse(user, ""), nil
}

func (u *adminUsecase) DeleteUser(ctx context.Context, adminID uuid.UUID, id uuid.UUID) error {
	if adminID == id {
		return ErrCannotAlterSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.userRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &adminID, entity.AuditActionUserDelete, "user", id.String(),
		entity.JSON{"email": user.Email}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeAllUserTokens(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens after deletion: %+v", err)
	}
	return nil
}

func (u *adminUsecase) ListAuditLogs(ctx context.Context, action string, userID *uuid.UUID, limit, offset int) (*dto.AuditLogListResponse, error) {
	opts := repository.ListOptions{
		OrderBy: "created_at desc",
		Limit:   limit,
		Offset:  offset,
	}
	if action != "" {
		opts = opts.WithFilter("action", action)
	}
	if userID != nil {
		opts = opts.WithFilter("user_id", *userID)
	}

	logs, total, err := u.auditRepo.List(u.db.WithContext(ctx), opts)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}
