package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"telemed-platform/config"
	"telemed-platform/internal/converter"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/infrastructure/mail"
	"telemed-platform/internal/service"
	"telemed-platform/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrMissingDoctorFields  = errors.New("license number and specialization are required for doctors")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidCode          = errors.New("invalid or expired verification code")
	ErrCodeCooldown         = errors.New("a verification code was already sent, wait before requesting a new one")
)

const (
	emailVerifyExpiry   = 15 * time.Minute
	passwordResetExpiry = 3 * time.Minute
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	RequestPasswordReset(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	cfg                *config.Config
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	verificationRepo   repository.EmailVerificationRepository
	jwtService         *jwt.JWTService
	tokenStore         service.TokenStore
	auditService       service.AuditService
	mailer             mail.Mailer
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	verificationRepo repository.EmailVerificationRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
	mailer mail.Mailer,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		cfg:                cfg,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		doctorProfileRepo:  doctorProfileRepo,
		verificationRepo:   verificationRepo,
		jwtService:         jwtService,
		tokenStore:         tokenStore,
		auditService:       auditService,
		mailer:             mailer,
	}
}

// Register provisions the identity and its role profile in one transaction,
// so a failed profile insert never leaves an orphaned identity behind.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role := entity.ResolveRole("", req.Role)
	if role == entity.RoleDoctor && (req.LicenseNumber == "" || req.Specialization == "") {
		return nil, ErrMissingDoctorFields
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		dob = &parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:       req.Email,
		Password:    string(hashedPassword),
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      entity.RoleIDByName(role),
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	switch role {
	case entity.RoleDoctor:
		profile := &entity.DoctorProfile{
			UserID:         user.ID,
			LicenseNumber:  req.LicenseNumber,
			Specialization: req.Specialization,
			Department:     req.Department,
		}
		if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
			if isDuplicateKeyError(err, "license_number") {
				return nil, ErrLicenseAlreadyExists
			}
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return nil, err
		}
		user.DoctorProfile = profile
	case entity.RolePatient:
		profile := &entity.PatientProfile{
			UserID:      user.ID,
			DateOfBirth: dob,
			Gender:      req.Gender,
			Address:     req.Address,
		}
		if err := u.patientProfileRepo.Create(tx, profile); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return nil, err
		}
		user.PatientProfile = profile
	}

	code, err := generateVerificationCode(6)
	if err != nil {
		return nil, err
	}
	verification := &entity.EmailVerification{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		Purpose:   entity.PurposeEmailVerify,
		ExpiresAt: time.Now().Add(emailVerifyExpiry),
	}
	if err := u.verificationRepo.Create(tx, verification); err != nil {
		u.log.Warnf("Failed to create email verification: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), nil); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Mail delivery is best-effort; the code can be re-requested.
	if err := u.mailer.SendVerificationCode(user.Email, code); err != nil {
		u.log.Warnf("Failed to send verification email to %s: %+v", user.Email, err)
	}

	return converter.UserToResponse(user, req.Role), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}

	if user == nil {
		// Demo auto-provisioning: only outside production and only when
		// explicitly enabled.
		if u.cfg.App.DemoLogin && !u.cfg.IsProduction() {
			return u.provisionDemoAccount(ctx, req)
		}
		return nil, ErrInvalidCredentials
	}

	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

// provisionDemoAccount creates a throwaway patient account for the supplied
// credentials and logs it in. Never reachable in production.
func (u *authUsecase) provisionDemoAccount(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	u.log.Infof("Demo login: provisioning account for %s", req.Email)

	name := strings.SplitN(req.Email, "@", 2)[0]
	if _, err := u.Register(ctx, &dto.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: name,
		Role:     entity.RolePatient,
	}); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	return u.issueTokens(ctx, user)
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	role := user.RoleName()

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, user.ID, accessTokenID, jwt.AccessToken, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Store(ctx, user.ID, refreshTokenID, jwt.RefreshToken, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.tokenStore.Revoke(ctx, userID, accessTokenID, jwt.AccessToken); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}
	if refreshTokenID != "" {
		if err := u.tokenStore.Revoke(ctx, userID, refreshTokenID, jwt.RefreshToken); err != nil {
			u.log.Warnf("Failed to revoke refresh token: %+v", err)
			return err
		}
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	valid, err := u.tokenStore.IsValid(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token must not be replayable.
	if err := u.tokenStore.Revoke(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken); err != nil {
		u.log.Warnf("Failed to revoke old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrAccountDisabled
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user, ""), nil
}

func (u *authUsecase) RequestPasswordReset(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	existing, err := u.verificationRepo.FindLatestValid(u.db.WithContext(ctx), user.ID, entity.PurposePasswordReset)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrCodeCooldown
	}

	code, err := generateVerificationCode(6)
	if err != nil {
		return err
	}
	verification := &entity.EmailVerification{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		Purpose:   entity.PurposePasswordReset,
		ExpiresAt: time.Now().Add(passwordResetExpiry),
	}
	if err := u.verificationRepo.Create(u.db.WithContext(ctx), verification); err != nil {
		return err
	}

	if err := u.mailer.SendPasswordResetCode(user.Email, code); err != nil {
		u.log.Warnf("Failed to send password reset email to %s: %+v", user.Email, err)
		return err
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	verification, err := u.verificationRepo.FindLatestValid(u.db.WithContext(ctx), user.ID, entity.PurposePasswordReset)
	if err != nil {
		return err
	}
	if verification == nil || verification.Code != req.Code {
		return ErrInvalidCode
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.verificationRepo.MarkUsed(tx, verification.ID); err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if err := u.userRepo.Update(tx, user); err != nil {
		return err
	}
	if err := u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionPasswordReset, "user", user.ID.String(), nil, nil); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	// Password changed: every existing session is revoked.
	if err := u.tokenStore.RevokeAllUserTokens(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to revoke user tokens after password reset: %+v", err)
	}
	return nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	verification, err := u.verificationRepo.FindLatestValid(u.db.WithContext(ctx), user.ID, entity.PurposeEmailVerify)
	if err != nil {
		return err
	}
	if verification == nil || verification.Code != req.Code {
		return ErrInvalidCode
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.verificationRepo.MarkUsed(tx, verification.ID); err != nil {
		return err
	}
	user.EmailVerified = true
	if err := u.userRepo.Update(tx, user); err != nil {
		return err
	}
	return tx.Commit().Error
}

// generateVerificationCode returns a random numeric code of the given length.
func generateVerificationCode(length int) (string, error) {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
