package utils

import (
	"log"
	"strings"
	"time"

	"subman/models"

	"gorm.io/gorm"
)

// DeriveStatus computes the correct lifecycle status of a subscription from
// its renewal date. A nil renewal date means a lifetime subscription, which
// is always Active. A renewal date on today's calendar day is still Active.
func DeriveStatus(renewalDate *time.Time, today time.Time) string {
	if renewalDate == nil {
		return models.SubscriptionActive
	}
	if IsPast(*renewalDate, today) {
		return models.SubscriptionInactive
	}
	return models.SubscriptionActive
}

// SubscriptionStore is the persistence boundary used by the background jobs.
type SubscriptionStore interface {
	FindAllNonDeleted() ([]models.Subscription, error)
	FindActiveWithRenewalDate() ([]models.Subscription, error)
	UpdateStatus(id uint, status string) error
}

// GormSubscriptionStore backs SubscriptionStore with the shared database.
type GormSubscriptionStore struct {
	Db *gorm.DB
}

func (s *GormSubscriptionStore) FindAllNonDeleted() ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.Db.Select("id", "renewal_date", "status").Find(&subs).Error
	return subs, err
}

func (s *GormSubscriptionStore) FindActiveWithRenewalDate() ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.Db.
		Where("status = ? AND renewal_date IS NOT NULL", models.SubscriptionActive).
		Preload("Department").
		Find(&subs).Error
	return subs, err
}

func (s *GormSubscriptionStore) UpdateStatus(id uint, status string) error {
	return s.Db.Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ReconcileResult tallies one reconciliation cycle for the logs.
type ReconcileResult struct {
	Active   int
	Inactive int
	Updated  int
}

// ReconcileSubscriptionStatuses sweeps every non-deleted subscription and
// rewrites its stored status where it disagrees with the derived one. Rows
// already correct are not written, so a second run with the same clock is a
// no-op. A fetch failure aborts the cycle; updates already committed stay
// committed and the next cycle corrects the rest.
func ReconcileSubscriptionStatuses(store SubscriptionStore, today time.Time) (ReconcileResult, error) {
	subs, err := store.FindAllNonDeleted()
	if err != nil {
		return ReconcileResult{}, err
	}

	var result ReconcileResult
	for _, sub := range subs {
		derived := DeriveStatus(sub.RenewalDate, today)
		if derived == models.SubscriptionActive {
			result.Active++
		} else {
			result.Inactive++
		}

		if strings.EqualFold(sub.Status, derived) {
			continue
		}
		if err := store.UpdateStatus(sub.ID, derived); err != nil {
			log.Printf("[STATUS-RECONCILER] Failed to update subscription %d: %v", sub.ID, err)
			continue
		}
		result.Updated++
	}
	return result, nil
}
