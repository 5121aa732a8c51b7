// internal/services/auth_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroyalty/marketplace-backend/internal/config"
	"github.com/openroyalty/marketplace-backend/internal/models"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func TestSignup_CreatesPendingKYCUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	user, err := svc.Signup(&SignupRequest{
		Email: "creator@example.com",
		Name:  "Ada Creator",
		Roles: []string{"CREATOR"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusPending, user.KYCStatus)
	assert.True(t, user.HasRole(models.UserRoleCreator))
}

func TestSignup_DuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	_, err := svc.Signup(&SignupRequest{
		Email: "dup@example.com",
		Name:  "First",
		Roles: []string{"INVESTOR"},
	})
	require.NoError(t, err)

	_, err = svc.Signup(&SignupRequest{
		Email: "dup@example.com",
		Name:  "Second",
		Roles: []string{"INVESTOR"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSignup_InvalidRoleRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	_, err := svc.Signup(&SignupRequest{
		Email: "nope@example.com",
		Name:  "Nope",
		Roles: []string{"ADMIN"},
	})
	require.Error(t, err)
}

func TestRequestCode_UnknownEmailIsSilent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	err := svc.RequestCode(&RequestCodeRequest{Email: "ghost@example.com"})
	require.NoError(t, err)

	var count int64
	db.Model(&models.LoginCode{}).Count(&count)
	assert.Zero(t, count)
}

func TestRequestCode_InvalidatesPreviousCodes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	user := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)

	require.NoError(t, svc.RequestCode(&RequestCodeRequest{Email: user.Email}))
	require.NoError(t, svc.RequestCode(&RequestCodeRequest{Email: user.Email}))

	var active int64
	db.Model(&models.LoginCode{}).
		Where("email = ? AND consumed_at IS NULL", user.Email).
		Count(&active)
	assert.Equal(t, int64(1), active)
}

func TestVerifyCode_IssuesTokens(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	user := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)

	loginCode := &models.LoginCode{
		Email:     user.Email,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, loginCode.SetCode("123456"))
	require.NoError(t, db.Create(loginCode).Error)

	tokens, err := svc.VerifyCode(&VerifyCodeRequest{Email: user.Email, Code: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, tokens.User.ID)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.NotNil(t, updated.LastLoginAt)
	assert.NotNil(t, updated.EmailVerifiedAt)

	// The code is single-use.
	_, err = svc.VerifyCode(&VerifyCodeRequest{Email: user.Email, Code: "123456"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
}

func TestVerifyCode_WrongCodeRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	user := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)

	loginCode := &models.LoginCode{
		Email:     user.Email,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, loginCode.SetCode("123456"))
	require.NoError(t, db.Create(loginCode).Error)

	_, err := svc.VerifyCode(&VerifyCodeRequest{Email: user.Email, Code: "654321"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
}

func TestVerifyCode_ExpiredCodeRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	user := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)

	loginCode := &models.LoginCode{
		Email:     user.Email,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, loginCode.SetCode("123456"))
	require.NoError(t, db.Create(loginCode).Error)

	_, err := svc.VerifyCode(&VerifyCodeRequest{Email: user.Email, Code: "123456"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	user := createTestUser(t, db, []string{"INVESTOR"}, models.KYCStatusApproved)

	loginCode := &models.LoginCode{
		Email:     user.Email,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, loginCode.SetCode("123456"))
	require.NoError(t, db.Create(loginCode).Error)

	tokens, err := svc.VerifyCode(&VerifyCodeRequest{Email: user.Email, Code: "123456"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(&RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, user.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(&RefreshTokenRequest{RefreshToken: "not-a-token"})
	require.Error(t, err)
}
