package utils

import (
	"fmt"
	"log"
	"sort"
	"time"

	"subman/models"
)

// ReminderItem is one subscription line inside a grouped expiry notice.
type ReminderItem struct {
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Currency            string  `json:"currency"`
	ExpiryDateFormatted string  `json:"expiryDateFormatted"`
	URL                 string  `json:"url"`
}

// DepartmentGroup collects the reminder items of one owning department.
type DepartmentGroup struct {
	Name          string         `json:"name"`
	Subscriptions []ReminderItem `json:"subscriptions"`
}

// ExpiryNotice is the payload handed to the notification dispatcher: one
// notice per reminder offset, grouped by department.
type ExpiryNotice struct {
	Departments        []DepartmentGroup `json:"departments"`
	DaysRemaining      int               `json:"daysRemaining"`
	TotalSubscriptions int               `json:"totalSubscriptions"`
}

// ExpiryNotifier is the dispatch boundary; the mailer implements it.
type ExpiryNotifier interface {
	SendGroupedExpiryNotice(notice ExpiryNotice) error
}

// BucketExpiring assigns each subscription to the reminder offset matching
// its days-until-expiry. Subscriptions whose distance is not in the offset
// set produce nothing; there is no catch-up for missed offsets.
func BucketExpiring(subs []models.Subscription, today time.Time, offsets []int) map[int][]models.Subscription {
	inSet := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		inSet[o] = true
	}

	buckets := make(map[int][]models.Subscription)
	for _, sub := range subs {
		if sub.RenewalDate == nil {
			continue
		}
		days := DaysUntil(*sub.RenewalDate, today)
		if inSet[days] {
			buckets[days] = append(buckets[days], sub)
		}
	}
	return buckets
}

// BuildExpiryNotice groups one bucket by owning department. Departments keep
// first-seen order, which is stable for a given scan.
func BuildExpiryNotice(offset int, subs []models.Subscription, baseURL string) ExpiryNotice {
	byDept := make(map[string]int) // department name -> index in groups
	var groups []DepartmentGroup

	for _, sub := range subs {
		dept := sub.DepartmentName()
		idx, ok := byDept[dept]
		if !ok {
			idx = len(groups)
			byDept[dept] = idx
			groups = append(groups, DepartmentGroup{Name: dept})
		}
		groups[idx].Subscriptions = append(groups[idx].Subscriptions, ReminderItem{
			Name:                sub.Name,
			Price:               sub.Price,
			Currency:            sub.Currency,
			ExpiryDateFormatted: sub.RenewalDate.Format("January 2, 2006"),
			URL:                 fmt.Sprintf("%s/subscriptions/%d", baseURL, sub.ID),
		})
	}

	return ExpiryNotice{
		Departments:        groups,
		DaysRemaining:      offset,
		TotalSubscriptions: len(subs),
	}
}

// ProcessExpiryReminders runs one reminder scan: load active dated
// subscriptions, bucket them, and dispatch one notice per non-empty bucket in
// ascending offset order. A dispatch failure is logged and does not stop the
// remaining buckets. Returns subscriptions scanned and notices sent.
func ProcessExpiryReminders(store SubscriptionStore, notifier ExpiryNotifier, today time.Time, offsets []int, baseURL string) (int, int, error) {
	subs, err := store.FindActiveWithRenewalDate()
	if err != nil {
		return 0, 0, err
	}

	buckets := BucketExpiring(subs, today, offsets)

	ordered := append([]int(nil), offsets...)
	sort.Ints(ordered)

	sent := 0
	for _, offset := range ordered {
		bucket := buckets[offset]
		if len(bucket) == 0 {
			continue
		}

		notice := BuildExpiryNotice(offset, bucket, baseURL)
		if err := notifier.SendGroupedExpiryNotice(notice); err != nil {
			log.Printf("[EXPIRY-REMINDER] Failed to send notice for offset %d (%d subscriptions): %v",
				offset, len(bucket), err)
			continue
		}
		sent++
	}
	return len(subs), sent, nil
}
