package flow

import (
	"clientbook/internal/types"
	"time"
)

func (s *UnitTestSuite) TestScheduleForMonth() {
	a := client("1", "Alice", types.GradeA)
	a.NextContact = "2024-03-05"
	b := client("2", "Bob", types.GradeB)
	b.NextContact = "2024-03-31"
	c := client("3", "Carol", types.GradeC)
	c.NextContact = "2024-04-01"
	d := client("4", "Dan", types.GradeD)

	entries := ScheduleFor([]types.ClientRecord{a, b, c, d}, "2024-03")
	s.Require().Len(entries, 2)
	s.Equal("1", entries[0].ID)
	s.Equal(types.Date("2024-03-05"), entries[0].NextContact)
	s.Equal("Alice", entries[0].Name)
	s.Equal(a.Phone, entries[0].Phone)
	s.Equal(types.GradeA, entries[0].Grade)
	s.Equal("2", entries[1].ID)
}

func (s *UnitTestSuite) TestScheduleKeepsCollectionOrder() {
	late := client("late", "Late", types.GradeA)
	late.NextContact = "2024-03-30"
	early := client("early", "Early", types.GradeA)
	early.NextContact = "2024-03-01"

	entries := ScheduleFor([]types.ClientRecord{late, early}, "2024-03")
	s.Require().Len(entries, 2)
	s.Equal("late", entries[0].ID)
	s.Equal("early", entries[1].ID)
}

func (s *UnitTestSuite) TestScheduleEmptyMonth() {
	a := client("1", "Alice", types.GradeA)
	a.NextContact = "2024-05-05"

	entries := ScheduleFor([]types.ClientRecord{a}, "2024-03")
	s.NotNil(entries)
	s.Empty(entries)

	s.Empty(ScheduleFor(nil, "2024-03"))
}

func (s *UnitTestSuite) TestMonthOrCurrent() {
	now := day("2024-07-20")
	m, err := MonthOrCurrent("", now)
	s.NoError(err)
	s.Equal("2024-07", m)

	m, err = MonthOrCurrent("2023-12", now)
	s.NoError(err)
	s.Equal("2023-12", m)

	for _, bad := range []string{"2024-13", "2024-3", "March", "2024-03-01"} {
		_, err = MonthOrCurrent(bad, now)
		s.ErrorIs(err, types.ErrValidation, bad)
	}
}

func (s *UnitTestSuite) TestClockOverride() {
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	SetTimeNowFn(func() time.Time { return fixed })
	s.Equal(fixed, Now())
	RestoreTimeNow()
	s.NotEqual(fixed, Now())
}
