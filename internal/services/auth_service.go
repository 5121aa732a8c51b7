// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/config"
	"github.com/openroyalty/marketplace-backend/internal/models"
	"github.com/openroyalty/marketplace-backend/internal/utils"
)

const (
	loginCodeLength = 6
	loginCodeTTL    = 10 * time.Minute
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type SignupRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Name  string   `json:"name" validate:"required,min=1,max=100"`
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=CREATOR INVESTOR"`
}

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthTokens struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

// Signup registers a new account. Sign-in happens separately through the
// emailed code flow; accounts have no password.
func (s *AuthService) Signup(req *SignupRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, errors.New("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	user := &models.User{
		Email:       req.Email,
		Name:        req.Name,
		Roles:       req.Roles,
		KYCStatus:   models.KYCStatusPending,
		ProfileData: models.JSONB{},
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"roles":   req.Roles,
	}).Info("User registered")

	// First sign-in code goes out immediately; a failure here is logged but
	// does not undo the registration, the user can re-request.
	if err := s.issueLoginCode(user); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to send initial sign-in code")
	}

	return user, nil
}

// RequestCode issues a one-time sign-in code for the address. Unknown
// addresses are a silent no-op so the endpoint cannot be used to probe which
// emails have accounts.
func (s *AuthService) RequestCode(req *RequestCodeRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("email", req.Email).Debug("Sign-in code requested for unknown email")
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.issueLoginCode(&user)
}

func (s *AuthService) issueLoginCode(user *models.User) error {
	code, err := utils.GenerateLoginCode(loginCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	now := time.Now()
	loginCode := &models.LoginCode{
		Email:     user.Email,
		ExpiresAt: now.Add(loginCodeTTL),
	}
	if err := loginCode.SetCode(code); err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// A fresh request invalidates any code still outstanding.
		if err := tx.Model(&models.LoginCode{}).
			Where("email = ? AND consumed_at IS NULL", user.Email).
			Update("consumed_at", now).Error; err != nil {
			return fmt.Errorf("failed to invalidate previous codes: %w", err)
		}

		if err := tx.Create(loginCode).Error; err != nil {
			return fmt.Errorf("failed to store code: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.sendLoginCode(user.Email, user.Name, code); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("Failed to send sign-in code email")
		return errors.New("failed to send sign-in code")
	}

	return nil
}

// VerifyCode exchanges a valid code for an access/refresh token pair.
func (s *AuthService) VerifyCode(req *VerifyCodeRequest) (*AuthTokens, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()

	var loginCode models.LoginCode
	err := s.db.Where("email = ? AND consumed_at IS NULL AND expires_at > ?", req.Email, now).
		Order("created_at DESC").
		First(&loginCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid or expired code")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := loginCode.CheckCode(req.Code); err != nil {
		return nil, errors.New("invalid or expired code")
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid or expired code")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&loginCode).Update("consumed_at", now).Error; err != nil {
			return fmt.Errorf("failed to consume code: %w", err)
		}

		updates := map[string]interface{}{"last_login_at": now}
		if user.EmailVerifiedAt == nil {
			updates["email_verified_at"] = now
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(&user)
}

// RefreshToken mints a new token pair from a valid refresh token. Claims are
// rebuilt from the current user record so role and KYC changes take effect.
func (s *AuthService) RefreshToken(req *RefreshTokenRequest) (*AuthTokens, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	subject, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthTokens, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, user.Roles, string(user.KYCStatus), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) sendLoginCode(email, name, code string) error {
	if s.cfg.Email.SMTPUsername == "" {
		// No SMTP configured; outside production the code is logged so the
		// flow stays testable end to end.
		if s.cfg.Environment != "production" {
			logrus.WithFields(logrus.Fields{
				"email": email,
				"code":  code,
			}).Info("SMTP not configured, sign-in code logged")
			return nil
		}
		return errors.New("email delivery not configured")
	}

	subject := "Your sign-in code"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour sign-in code is: %s\r\n\r\nIt expires in %d minutes. If you did not request this code, you can ignore this email.\r\n",
		name, code, int(loginCodeTTL.Minutes()),
	)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.Email.FromName, s.cfg.Email.FromEmail, email, subject, body,
	))

	auth := smtp.PlainAuth("", s.cfg.Email.SMTPUsername, s.cfg.Email.SMTPPassword, s.cfg.Email.SMTPHost)
	addr := s.cfg.Email.SMTPHost + ":" + s.cfg.Email.SMTPPort

	return smtp.SendMail(addr, auth, s.cfg.Email.FromEmail, []string{email}, msg)
}
