package flow

import (
	"clientbook/internal/types"
	"time"
)

func (s *UnitTestSuite) TestPendingClassification() {
	now := day("2024-03-15")
	past := client("past", "Past", types.GradeA)
	past.NextContact = "2024-03-10"
	future := client("future", "Future", types.GradeA)
	future.NextContact = "2024-03-20"
	today := client("today", "Today", types.GradeA)
	today.NextContact = "2024-03-15"
	none := client("none", "None", types.GradeA)
	broken := client("broken", "Broken", types.GradeA)
	broken.NextContact = "someday"

	a := ComputeAnalytics([]types.ClientRecord{past, future, today, none, broken}, now)
	ids := make([]string, 0, len(a.PendingClients))
	for _, c := range a.PendingClients {
		ids = append(ids, c.ID)
	}
	s.Equal([]string{"past", "none"}, ids)
}

func (s *UnitTestSuite) TestExpiringPolicyBoundary() {
	now := day("2024-03-15")
	edge := client("edge", "Edge", types.GradeB)
	edge.PolicyExpiry = "2024-06-15"
	beyond := client("beyond", "Beyond", types.GradeB)
	beyond.PolicyExpiry = "2024-07-15"
	lapsed := client("lapsed", "Lapsed", types.GradeB)
	lapsed.PolicyExpiry = "2023-01-01"
	unset := client("unset", "Unset", types.GradeB)
	garbage := client("garbage", "Garbage", types.GradeB)
	garbage.PolicyExpiry = "2024-02-30"

	a := ComputeAnalytics([]types.ClientRecord{edge, beyond, lapsed, unset, garbage}, now)
	s.Require().Len(a.ExpiringPolicies, 2)
	s.Equal("edge", a.ExpiringPolicies[0].ID)
	s.Equal("lapsed", a.ExpiringPolicies[1].ID)
}

func (s *UnitTestSuite) TestExpiringPolicyMonthOverflow() {
	// Nov 30 + 3 months normalizes past the end of February.
	now := day("2023-11-30")
	c := client("1", "Leap", types.GradeA)
	c.PolicyExpiry = "2024-03-01"
	a := ComputeAnalytics([]types.ClientRecord{c}, now)
	s.Len(a.ExpiringPolicies, 1)
}

func (s *UnitTestSuite) TestGradeDistribution() {
	clients := []types.ClientRecord{
		client("1", "a", types.GradeA),
		client("2", "b", types.GradeA),
		client("3", "c", types.GradeB),
		client("4", "d", types.GradeD),
		client("5", "e", types.Grade("Z")),
	}
	a := ComputeAnalytics(clients, day("2024-03-15"))
	s.Equal(2, a.CountFor(types.GradeA))
	s.Equal(1, a.CountFor(types.GradeB))
	s.Equal(0, a.CountFor(types.GradeC))
	s.Equal(1, a.CountFor(types.GradeD))
	s.Equal(0, a.CountFor("Z"))

	s.Require().Len(a.GradeDistribution, 4)
	for i, g := range types.Grades {
		s.Equal(g, a.GradeDistribution[i].Grade)
	}
	s.Equal(5, a.TotalClients)
}

func (s *UnitTestSuite) TestLegacyGradeLabelsCount() {
	legacy := client("1", "legacy", types.Grade("C級"))
	a := ComputeAnalytics([]types.ClientRecord{legacy}, day("2024-03-15"))
	s.Equal(1, a.CountFor(types.GradeC))
}

func (s *UnitTestSuite) TestContactMethodDistribution() {
	call := client("1", "call", types.GradeA)
	text := client("2", "text", types.GradeA)
	text.ContactMethod = types.ContactMessage
	unset := client("3", "unset", types.GradeA)
	unset.ContactMethod = ""
	fax := client("4", "fax", types.GradeA)
	fax.ContactMethod = "fax"

	a := ComputeAnalytics([]types.ClientRecord{call, text, unset, fax}, day("2024-03-15"))
	s.Equal(2, a.CountForMethod(types.ContactPhone))
	s.Equal(1, a.CountForMethod(types.ContactMessage))
	s.Require().Len(a.ContactMethodDistribution, 2)
}

func (s *UnitTestSuite) TestMonthlyContactCount() {
	this := client("1", "this", types.GradeA)
	this.LastContact = "2024-03-01"
	last := client("2", "last", types.GradeA)
	last.LastContact = "2024-02-29"
	never := client("3", "never", types.GradeA)

	a := ComputeAnalytics([]types.ClientRecord{this, last, never}, day("2024-03-15"))
	s.Equal(1, a.MonthlyContactCount)
}

func (s *UnitTestSuite) TestAnalyticsEmptySnapshot() {
	a := ComputeAnalytics(nil, time.Now())
	s.Zero(a.TotalClients)
	s.NotNil(a.PendingClients)
	s.NotNil(a.ExpiringPolicies)
	s.Len(a.GradeDistribution, 4)
	s.Zero(a.CountFor(types.GradeA))
}

func (s *UnitTestSuite) TestAnalyticsDoesNotTouchSnapshot() {
	c := client("1", "x", types.GradeA)
	snapshot := []types.ClientRecord{c}
	a := ComputeAnalytics(snapshot, day("2024-03-15"))
	a.PendingClients[0].Name = "changed"
	s.Equal("x", snapshot[0].Name)
}
