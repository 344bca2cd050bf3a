package flow

import (
	"clientbook/internal/types"
	"time"
)

// ExpiryHorizonMonths is how far ahead a policy renewal counts as expiring.
const ExpiryHorizonMonths = 3

// ComputeAnalytics derives the dashboard from a snapshot. It keeps no state between calls.
func ComputeAnalytics(snapshot []types.ClientRecord, now time.Time) types.Analytics {
	month := CurrentMonth(now)
	today := calendarDay(now)
	horizon := today.AddDate(0, ExpiryHorizonMonths, 0)

	a := types.Analytics{
		TotalClients:     len(snapshot),
		PendingClients:   make([]types.ClientRecord, 0),
		ExpiringPolicies: make([]types.ClientRecord, 0),
	}
	grades := make(map[types.Grade]int, len(types.Grades))
	methods := make(map[types.ContactMethod]int, len(types.ContactMethods))

	for _, c := range snapshot {
		if c.LastContact.InMonth(month) {
			a.MonthlyContactCount++
		}
		if isPending(c, today) {
			a.PendingClients = append(a.PendingClients, c)
		}
		if isPolicyExpiring(c, horizon) {
			a.ExpiringPolicies = append(a.ExpiringPolicies, c)
		}
		if g, ok := types.ParseGrade(string(c.Grade)); ok {
			grades[g]++
		}
		if m, ok := types.ParseContactMethod(string(c.ContactMethod)); ok {
			methods[m]++
		}
	}

	a.GradeDistribution = make([]types.GradeCount, 0, len(types.Grades))
	for _, g := range types.Grades {
		a.GradeDistribution = append(a.GradeDistribution, types.GradeCount{Grade: g, Count: grades[g]})
	}
	a.ContactMethodDistribution = make([]types.ContactMethodCount, 0, len(types.ContactMethods))
	for _, m := range types.ContactMethods {
		a.ContactMethodDistribution = append(a.ContactMethodDistribution, types.ContactMethodCount{Method: m, Count: methods[m]})
	}
	return a
}

// isPending: no next contact planned, or the planned date is already behind today.
// A date that does not parse is not pending.
func isPending(c types.ClientRecord, today time.Time) bool {
	if c.NextContact.IsZero() {
		return true
	}
	next, err := c.NextContact.Time()
	if err != nil {
		return false
	}
	return next.Before(today)
}

// isPolicyExpiring: policy renewal on or before the horizon. Unparsable dates never expire.
func isPolicyExpiring(c types.ClientRecord, horizon time.Time) bool {
	if c.PolicyExpiry.IsZero() {
		return false
	}
	expiry, err := c.PolicyExpiry.Time()
	if err != nil {
		return false
	}
	return !expiry.After(horizon)
}
