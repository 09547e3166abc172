package utils

import (
	"errors"
	"testing"
	"time"

	"subman/models"

	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	notices     []ExpiryNotice
	failOffsets map[int]bool
}

func (f *fakeNotifier) SendGroupedExpiryNotice(n ExpiryNotice) error {
	if f.failOffsets[n.DaysRemaining] {
		return errors.New("smtp connection refused")
	}
	f.notices = append(f.notices, n)
	return nil
}

func deptSub(id uint, name string, renewal *time.Time, dept string) models.Subscription {
	s := models.Subscription{
		Name:        name,
		Price:       49.99,
		Currency:    "USD",
		RenewalDate: renewal,
		Status:      models.SubscriptionActive,
	}
	s.ID = id
	if dept != "" {
		s.Department = &models.Department{Name: dept}
	}
	return s
}

var reminderToday = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)

func offsetDate(days int) *time.Time {
	t := time.Date(2026, time.March, 10+days, 0, 0, 0, 0, time.Local)
	return &t
}

func TestBucketCompleteness(t *testing.T) {
	subs := []models.Subscription{
		deptSub(1, "CRM", offsetDate(7), "Sales"),
		deptSub(2, "CI Runner", offsetDate(3), "Engineering"),
		deptSub(3, "Payroll", offsetDate(0), "HR"),
		deptSub(4, "Analytics", offsetDate(5), "Sales"), // not a reminder day
		deptSub(5, "Old Wiki", offsetDate(-1), "Ops"),   // already past
		deptSub(6, "Site License", nil, "Engineering"),  // lifetime
	}

	buckets := BucketExpiring(subs, reminderToday, []int{7, 3, 0})

	assert.Len(t, buckets, 3)
	assert.Len(t, buckets[7], 1)
	assert.Len(t, buckets[3], 1)
	assert.Len(t, buckets[0], 1)
	assert.NotContains(t, buckets, 5)
	assert.NotContains(t, buckets, -1)
}

func TestBuildExpiryNoticeGroupsByDepartment(t *testing.T) {
	subs := []models.Subscription{
		deptSub(1, "CI Runner", offsetDate(3), "Engineering"),
		deptSub(2, "Error Tracker", offsetDate(3), "Engineering"),
		deptSub(3, "CRM", offsetDate(3), "Sales"),
		deptSub(4, "Orphan Tool", offsetDate(3), ""),
	}

	notice := BuildExpiryNotice(3, subs, "https://panel.example.com")

	assert.Equal(t, 3, notice.DaysRemaining)
	assert.Equal(t, 4, notice.TotalSubscriptions)
	assert.Len(t, notice.Departments, 3)

	assert.Equal(t, "Engineering", notice.Departments[0].Name)
	assert.Len(t, notice.Departments[0].Subscriptions, 2)
	assert.Equal(t, "Sales", notice.Departments[1].Name)
	assert.Equal(t, "N/A", notice.Departments[2].Name, "missing department falls back to N/A")

	item := notice.Departments[0].Subscriptions[0]
	assert.Equal(t, "CI Runner", item.Name)
	assert.Equal(t, "March 13, 2026", item.ExpiryDateFormatted)
	assert.Equal(t, "https://panel.example.com/subscriptions/1", item.URL)
}

func TestProcessExpiryRemindersOneNoticePerBucket(t *testing.T) {
	store := &fakeSubscriptionStore{subs: []models.Subscription{
		deptSub(1, "CI Runner", offsetDate(3), "Engineering"),
		deptSub(2, "Error Tracker", offsetDate(3), "Engineering"),
		deptSub(3, "Payroll", offsetDate(0), "HR"),
		deptSub(4, "Analytics", offsetDate(5), "Sales"),
	}}
	notifier := &fakeNotifier{}

	scanned, sent, err := ProcessExpiryReminders(store, notifier, reminderToday, []int{7, 3, 0}, "http://localhost:3000")
	assert.NoError(t, err)
	assert.Equal(t, 4, scanned)
	assert.Equal(t, 2, sent)

	// Ascending offset order, one consolidated notice per bucket
	assert.Len(t, notifier.notices, 2)
	assert.Equal(t, 0, notifier.notices[0].DaysRemaining)
	assert.Equal(t, 3, notifier.notices[1].DaysRemaining)
	assert.Equal(t, 2, notifier.notices[1].TotalSubscriptions)
}

func TestProcessExpiryRemindersIsolatesDispatchFailures(t *testing.T) {
	store := &fakeSubscriptionStore{subs: []models.Subscription{
		deptSub(1, "Payroll", offsetDate(0), "HR"),
		deptSub(2, "CI Runner", offsetDate(3), "Engineering"),
		deptSub(3, "CRM", offsetDate(7), "Sales"),
	}}
	notifier := &fakeNotifier{failOffsets: map[int]bool{0: true}}

	scanned, sent, err := ProcessExpiryReminders(store, notifier, reminderToday, []int{7, 3, 0}, "http://localhost:3000")
	assert.NoError(t, err, "a failed bucket does not fail the scan")
	assert.Equal(t, 3, scanned)
	assert.Equal(t, 2, sent)
	assert.Len(t, notifier.notices, 2)
}

func TestProcessExpiryRemindersAbortsOnFetchFailure(t *testing.T) {
	store := &fakeSubscriptionStore{findErr: errors.New("connection refused")}
	notifier := &fakeNotifier{}

	_, _, err := ProcessExpiryReminders(store, notifier, reminderToday, []int{7, 3, 0}, "http://localhost:3000")
	assert.Error(t, err)
	assert.Empty(t, notifier.notices)
}

// A subscription that lapsed yesterday is flipped by reconciliation and then
// no longer appears in the reminder scan.
func TestReconcthenReminderExcludesLapsed(t *testing.T) {
	store := &fakeSubscriptionStore{subs: []models.Subscription{
		deptSub(1, "Lapsed Tool", offsetDate(-1), "Ops"),
		deptSub(2, "Payroll", offsetDate(0), "HR"),
	}}

	result, err := ReconcileSubscriptionStatuses(store, reminderToday)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	notifier := &fakeNotifier{}
	scanned, sent, err := ProcessExpiryReminders(store, notifier, reminderToday, []int{7, 3, 0}, "http://localhost:3000")
	assert.NoError(t, err)
	assert.Equal(t, 1, scanned, "inactive subscription is out of the scan entirely")
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, notifier.notices[0].DaysRemaining)
}
