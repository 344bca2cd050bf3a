package flow

import (
	"clientbook/internal/types"
	"fmt"
	"time"
)

const MonthLayout = types.MonthLayout

// ScheduleFor returns the visits planned for yearMonth (YYYY-MM) in collection order.
// A record belongs to the month when its next contact date starts with yearMonth; the date
// itself is never parsed, so no timezone shift applies.
func ScheduleFor(snapshot []types.ClientRecord, yearMonth string) []types.ScheduleEntry {
	entries := make([]types.ScheduleEntry, 0)
	for _, c := range snapshot {
		if !c.NextContact.InMonth(yearMonth) {
			continue
		}
		entries = append(entries, types.ScheduleEntry{
			ID:          c.ID,
			NextContact: c.NextContact,
			Name:        c.Name,
			Phone:       c.Phone,
			Grade:       c.Grade,
		})
	}
	return entries
}

// ParseMonth checks that s is a YYYY-MM month and returns it unchanged.
func ParseMonth(s string) (string, error) {
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return "", types.Err(types.ErrValidation, nil, "month %q must be YYYY-MM", s)
	}
	return s, nil
}

// MonthOrCurrent returns s when set and valid, or the month of now when s is empty.
func MonthOrCurrent(s string, now time.Time) (string, error) {
	if s == "" {
		return CurrentMonth(now), nil
	}
	m, err := ParseMonth(s)
	if err != nil {
		return "", fmt.Errorf("schedule month: %w", err)
	}
	return m, nil
}
