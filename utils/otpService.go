package utils

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"time"

	"subman/models"

	"gorm.io/gorm"
)

const (
	OtpTTL            = 2 * time.Minute
	OtpMaxAttempts    = 3
	OtpResendCooldown = 30 * time.Second
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// OtpStore is the persistence boundary for OTP state kept on the user row.
type OtpStore interface {
	FindUserByID(id uint) (*models.User, error) // (nil, nil) when absent
	UpdateUserOtpFields(id uint, code *string, expiresAt, createdAt *time.Time, attempts int) error
	IncrementOtpAttempts(id uint) error
}

// GormOtpStore backs OtpStore with the shared database.
type GormOtpStore struct {
	Db *gorm.DB
}

func (s *GormOtpStore) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.Db.Where("id = ?", id).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormOtpStore) UpdateUserOtpFields(id uint, code *string, expiresAt, createdAt *time.Time, attempts int) error {
	return s.Db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"otp_code":       code,
		"otp_expires_at": expiresAt,
		"otp_created_at": createdAt,
		"otp_attempts":   attempts,
	}).Error
}

func (s *GormOtpStore) IncrementOtpAttempts(id uint) error {
	return s.Db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1")).Error
}

// OtpService manages the one-time-code lifecycle for step-up login. All
// transitions for one user are serialized through a per-user mutex so a
// concurrent resend and verify cannot interleave.
type OtpService struct {
	Store OtpStore
	Now   func() time.Time

	locks sync.Map // userID -> *sync.Mutex
}

func NewOtpService(store OtpStore) *OtpService {
	return &OtpService{Store: store, Now: time.Now}
}

func (s *OtpService) lockUser(userID uint) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Generate creates a fresh code for the user, replacing any pending one.
// The plaintext code is returned in Data["code"] for the mailer; only the
// encrypted form is stored.
func (s *OtpService) Generate(userID uint) (Result, error) {
	defer s.lockUser(userID)()
	return s.generateLocked(userID)
}

func (s *OtpService) generateLocked(userID uint) (Result, error) {
	user, err := s.Store.FindUserByID(userID)
	if err != nil {
		return Result{}, err
	}
	if user == nil {
		return Fail("User not found!"), nil
	}

	code, err := GenerateOTP()
	if err != nil {
		return Result{}, err
	}
	encrypted, err := EncryptSecret(code)
	if err != nil {
		return Result{}, err
	}

	now := s.Now()
	expiresAt := now.Add(OtpTTL)
	if err := s.Store.UpdateUserOtpFields(userID, &encrypted, &expiresAt, &now, 0); err != nil {
		return Result{}, err
	}

	return Ok("OTP generated.", map[string]interface{}{"code": code}), nil
}

// Verify checks a submitted code. Success, expiry and attempt exhaustion all
// clear the stored fields, so the code is single-use and a later call sees
// no OTP at all.
func (s *OtpService) Verify(userID uint, code string) (Result, error) {
	defer s.lockUser(userID)()

	user, err := s.Store.FindUserByID(userID)
	if err != nil {
		return Result{}, err
	}
	if user == nil {
		return Fail("User not found!"), nil
	}
	if user.OtpCode == nil || user.OtpExpiresAt == nil {
		return Fail("No OTP found. Please request a new one."), nil
	}

	if user.OtpAttempts >= OtpMaxAttempts {
		if err := s.clear(userID); err != nil {
			return Result{}, err
		}
		return Fail("Too many incorrect attempts. Please request a new OTP."), nil
	}

	if s.Now().After(*user.OtpExpiresAt) {
		if err := s.clear(userID); err != nil {
			return Result{}, err
		}
		return Fail("OTP has expired. Please request a new one."), nil
	}

	if DecryptSecret(*user.OtpCode) != code {
		if err := s.Store.IncrementOtpAttempts(userID); err != nil {
			return Result{}, err
		}
		remaining := OtpMaxAttempts - (user.OtpAttempts + 1)
		if remaining <= 0 {
			if err := s.clear(userID); err != nil {
				return Result{}, err
			}
			return Fail("Too many incorrect attempts. Please request a new OTP."), nil
		}
		return Fail(fmt.Sprintf("Incorrect OTP. %d attempts remaining.", remaining)), nil
	}

	if err := s.clear(userID); err != nil {
		return Result{}, err
	}
	return Ok("OTP verified successfully.", nil), nil
}

// Resend issues a new code, throttled to one generation per cooldown window
// measured from the previous generation instant.
func (s *OtpService) Resend(userID uint) (Result, error) {
	defer s.lockUser(userID)()

	user, err := s.Store.FindUserByID(userID)
	if err != nil {
		return Result{}, err
	}
	if user == nil {
		return Fail("User not found!"), nil
	}

	if user.OtpCreatedAt != nil {
		elapsed := s.Now().Sub(*user.OtpCreatedAt)
		if elapsed < OtpResendCooldown {
			wait := int(math.Ceil((OtpResendCooldown - elapsed).Seconds()))
			return Fail(fmt.Sprintf("Please wait %d more seconds before requesting a new OTP.", wait)), nil
		}
	}

	return s.generateLocked(userID)
}

func (s *OtpService) clear(userID uint) error {
	return s.Store.UpdateUserOtpFields(userID, nil, nil, nil, 0)
}
