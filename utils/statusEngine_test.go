package utils

import (
	"errors"
	"testing"
	"time"

	"subman/models"

	"github.com/stretchr/testify/assert"
)

// fakeSubscriptionStore is an in-memory SubscriptionStore for the job tests.
type fakeSubscriptionStore struct {
	subs      []models.Subscription
	findErr   error
	updateErr error
	updates   int
}

func (f *fakeSubscriptionStore) FindAllNonDeleted() ([]models.Subscription, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]models.Subscription, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeSubscriptionStore) FindActiveWithRenewalDate() ([]models.Subscription, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Subscription
	for _, s := range f.subs {
		if s.Status == models.SubscriptionActive && s.RenewalDate != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionStore) UpdateStatus(id uint, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs[i].Status = status
			f.updates++
			return nil
		}
	}
	return errors.New("not found")
}

func sub(id uint, renewal *time.Time, status string) models.Subscription {
	s := models.Subscription{RenewalDate: renewal, Status: status}
	s.ID = id
	return s
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.Local)

	assert.Equal(t, models.SubscriptionActive, DeriveStatus(nil, today), "lifetime subscriptions never expire")
	assert.Equal(t, models.SubscriptionInactive, DeriveStatus(datePtr(2026, time.March, 9), today))
	assert.Equal(t, models.SubscriptionActive, DeriveStatus(datePtr(2026, time.March, 10), today), "renewal today is still active")
	assert.Equal(t, models.SubscriptionActive, DeriveStatus(datePtr(2026, time.April, 1), today))
}

func TestReconcileUpdatesOnlyMismatches(t *testing.T) {
	today := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.Local)
	store := &fakeSubscriptionStore{subs: []models.Subscription{
		sub(1, datePtr(2026, time.March, 9), models.SubscriptionActive),   // stale, must flip
		sub(2, datePtr(2026, time.March, 20), models.SubscriptionActive),  // correct
		sub(3, nil, models.SubscriptionInactive),                          // lifetime, must flip back
		sub(4, datePtr(2026, time.March, 1), models.SubscriptionInactive), // correct
	}}

	result, err := ReconcileSubscriptionStatuses(store, today)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, result.Active)
	assert.Equal(t, 2, result.Inactive)
	assert.Equal(t, models.SubscriptionInactive, store.subs[0].Status)
	assert.Equal(t, models.SubscriptionActive, store.subs[2].Status)
}

func TestReconcileIsCaseInsensitive(t *testing.T) {
	today := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.Local)
	store := &fakeSubscriptionStore{subs: []models.Subscription{
		sub(1, datePtr(2026, time.March, 20), "active"),
		sub(2, datePtr(2026, time.March, 1), "INACTIVE"),
	}}

	result, err := ReconcileSubscriptionStatuses(store, today)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Updated, "case-only differences are not rewritten")
}

func TestReconcileIdempotent(t *testing.T) {
	today := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.Local)
	store := &fakeSubscriptionStore{subs: []models.Subscription{
		sub(1, datePtr(2026, time.March, 9), models.SubscriptionActive),
		sub(2, datePtr(2026, time.March, 8), models.SubscriptionActive),
		sub(3, datePtr(2026, time.March, 20), models.SubscriptionActive),
	}}

	first, err := ReconcileSubscriptionStatuses(store, today)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Updated)

	second, err := ReconcileSubscriptionStatuses(store, today)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Updated, "second run with the same clock writes nothing")
}

func TestReconcileAbortsOnFetchFailure(t *testing.T) {
	store := &fakeSubscriptionStore{findErr: errors.New("connection refused")}

	_, err := ReconcileSubscriptionStatuses(store, time.Now())
	assert.Error(t, err)
	assert.Equal(t, 0, store.updates)
}

func TestReconcileContinuesPastUpdateFailure(t *testing.T) {
	today := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.Local)
	store := &fakeSubscriptionStore{
		subs: []models.Subscription{
			sub(1, datePtr(2026, time.March, 9), models.SubscriptionActive),
			sub(2, datePtr(2026, time.March, 8), models.SubscriptionActive),
		},
		updateErr: errors.New("row lock timeout"),
	}

	result, err := ReconcileSubscriptionStatuses(store, today)
	assert.NoError(t, err, "per-row write failures do not abort the cycle")
	assert.Equal(t, 0, result.Updated)
}
