package utils

import (
	"errors"
	"testing"
	"time"

	"subman/models"

	"github.com/stretchr/testify/assert"
)

// fakeOtpStore keeps user rows in memory.
type fakeOtpStore struct {
	users   map[uint]*models.User
	findErr error
}

func newFakeOtpStore(ids ...uint) *fakeOtpStore {
	users := make(map[uint]*models.User)
	for _, id := range ids {
		u := &models.User{Email: "user@example.com"}
		u.ID = id
		users[id] = u
	}
	return &fakeOtpStore{users: users}
}

func (f *fakeOtpStore) FindUserByID(id uint) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeOtpStore) UpdateUserOtpFields(id uint, code *string, expiresAt, createdAt *time.Time, attempts int) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.OtpCode = code
	u.OtpExpiresAt = expiresAt
	u.OtpCreatedAt = createdAt
	u.OtpAttempts = attempts
	return nil
}

func (f *fakeOtpStore) IncrementOtpAttempts(id uint) error {
	f.users[id].OtpAttempts++
	return nil
}

// newTestOtpService returns a service with a controllable clock.
func newTestOtpService(store OtpStore) (*OtpService, *time.Time) {
	svc := NewOtpService(store)
	current := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
	svc.Now = func() time.Time { return current }
	return svc, &current
}

// generateCode runs Generate and returns the plaintext code it produced.
func generateCode(t *testing.T, svc *OtpService, userID uint) string {
	result, err := svc.Generate(userID)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	code, ok := result.Data["code"].(string)
	assert.True(t, ok)
	assert.Len(t, code, 6)
	return code
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}

func TestGenerateStoresEncryptedCode(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, _ := newTestOtpService(store)

	code := generateCode(t, svc, 1)

	stored := store.users[1]
	assert.NotNil(t, stored.OtpCode)
	assert.NotEqual(t, code, *stored.OtpCode, "plaintext code must not be stored")
	assert.Equal(t, code, DecryptSecret(*stored.OtpCode))
	assert.Equal(t, 0, stored.OtpAttempts)
	assert.NotNil(t, stored.OtpExpiresAt)
}

func TestGenerateUnknownUser(t *testing.T) {
	svc, _ := newTestOtpService(newFakeOtpStore())

	result, err := svc.Generate(42)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "User not found!", result.Message)
}

func TestVerifyWithoutCode(t *testing.T) {
	svc, _ := newTestOtpService(newFakeOtpStore(1))

	result, err := svc.Verify(1, "123456")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No OTP found")
}

func TestVerifyIsSingleUse(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, _ := newTestOtpService(store)
	code := generateCode(t, svc, 1)

	result, err := svc.Verify(1, code)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, store.users[1].OtpCode, "fields cleared on success")

	// Same code again sees no pending OTP at all
	result, err = svc.Verify(1, code)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No OTP found")
}

func TestVerifyWrongCodeCountsAttempts(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, _ := newTestOtpService(store)
	generateCode(t, svc, 1)

	result, err := svc.Verify(1, "000000")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Incorrect OTP. 2 attempts remaining.", result.Message)

	result, err = svc.Verify(1, "000000")
	assert.NoError(t, err)
	assert.Equal(t, "Incorrect OTP. 1 attempts remaining.", result.Message)
}

func TestVerifyAttemptExhaustion(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, _ := newTestOtpService(store)
	code := generateCode(t, svc, 1)

	for i := 0; i < 2; i++ {
		result, err := svc.Verify(1, "000000")
		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "attempts remaining")
	}

	// Third wrong attempt exhausts and clears
	result, err := svc.Verify(1, "000000")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Too many incorrect attempts")
	assert.Nil(t, store.users[1].OtpCode)

	// The correct original code is useless now
	result, err = svc.Verify(1, code)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No OTP found")
}

func TestVerifyExpiryBoundary(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, clock := newTestOtpService(store)
	code := generateCode(t, svc, 1)

	// Just inside the window
	*clock = clock.Add(119 * time.Second)
	result, err := svc.Verify(1, code)
	assert.NoError(t, err)
	assert.True(t, result.Success)

	// Fresh code, just past the window
	code = generateCode(t, svc, 1)
	*clock = clock.Add(120*time.Second + time.Millisecond)
	result, err = svc.Verify(1, code)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "expired")
	assert.Nil(t, store.users[1].OtpCode, "fields cleared on expiry")

	result, err = svc.Verify(1, code)
	assert.NoError(t, err)
	assert.Contains(t, result.Message, "No OTP found")
}

func TestResendCooldownBoundary(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, clock := newTestOtpService(store)
	first := generateCode(t, svc, 1)

	*clock = clock.Add(29 * time.Second)
	result, err := svc.Resend(1)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Please wait 1 more seconds before requesting a new OTP.", result.Message)
	assert.Equal(t, first, DecryptSecret(*store.users[1].OtpCode), "code unchanged while throttled")

	*clock = clock.Add(time.Second) // exactly 30s since generation
	result, err = svc.Resend(1)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEqual(t, first, result.Data["code"].(string))
}

func TestResendReplacesPendingCode(t *testing.T) {
	store := newFakeOtpStore(1)
	svc, clock := newTestOtpService(store)
	first := generateCode(t, svc, 1)

	*clock = clock.Add(time.Minute)
	result, err := svc.Resend(1)
	assert.NoError(t, err)
	assert.True(t, result.Success)

	// The old code no longer verifies
	verify, err := svc.Verify(1, first)
	assert.NoError(t, err)
	assert.False(t, verify.Success)

	// The new one does (one attempt was burned above)
	verify, err = svc.Verify(1, result.Data["code"].(string))
	assert.NoError(t, err)
	assert.True(t, verify.Success)
}

func TestVerifyStoreFailureSurfacesAsError(t *testing.T) {
	store := newFakeOtpStore(1)
	store.findErr = errors.New("connection refused")
	svc, _ := newTestOtpService(store)

	_, err := svc.Verify(1, "123456")
	assert.Error(t, err)
}
