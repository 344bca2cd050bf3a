package types

// ScheduleEntry is one planned visit in a monthly schedule.
type ScheduleEntry struct {
	ID          string `json:"id"`
	NextContact Date   `json:"nextContact"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Grade       Grade  `json:"grade"`
}

type GradeCount struct {
	Grade Grade `json:"grade"`
	Count int   `json:"count"`
}

type ContactMethodCount struct {
	Method ContactMethod `json:"method"`
	Count  int           `json:"count"`
}

// Analytics is the dashboard view over a snapshot. Distributions always carry
// every known category, in display order, even when the count is zero.
type Analytics struct {
	TotalClients              int                  `json:"totalClients"`
	MonthlyContactCount       int                  `json:"monthlyContactCount"`
	PendingClients            []ClientRecord       `json:"pendingClients"`
	ExpiringPolicies          []ClientRecord       `json:"expiringPolicies"`
	GradeDistribution         []GradeCount         `json:"gradeDistribution"`
	ContactMethodDistribution []ContactMethodCount `json:"contactMethodDistribution"`
}

// CountFor returns the tally for g, or 0 when g is not a known grade.
func (a Analytics) CountFor(g Grade) int {
	for _, c := range a.GradeDistribution {
		if c.Grade == g {
			return c.Count
		}
	}
	return 0
}

// CountForMethod returns the tally for m, or 0 when m is not a known method.
func (a Analytics) CountForMethod(m ContactMethod) int {
	for _, c := range a.ContactMethodDistribution {
		if c.Method == m {
			return c.Count
		}
	}
	return 0
}

// ChangeOp names the mutation behind a change signal.
type ChangeOp string

const (
	OpCreate   ChangeOp = "create"
	OpUpdate   ChangeOp = "update"
	OpDelete   ChangeOp = "delete"
	OpExternal ChangeOp = "external" // slot rewritten outside this process
)

// Change tells subscribers the collection moved on; they re-query for the new state.
type Change struct {
	Op ChangeOp `json:"op"`
	ID string   `json:"id,omitempty"`
	At int64    `json:"at"`
}
