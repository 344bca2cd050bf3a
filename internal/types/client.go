package types

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted calendar date encoding.
const DateLayout = "2006-01-02"

// MonthLayout is the year-month prefix used for schedule lookups.
const MonthLayout = "2006-01"

// Date is a calendar date stored as YYYY-MM-DD. The zero value means the date is absent.
type Date string

func DateOf(t time.Time) Date { return Date(t.Format(DateLayout)) }

func (d Date) IsZero() bool { return d == "" }

// MarshalYAML always quotes the date so YAML readers keep it a plain string.
func (d Date) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(d))), nil
}

// UnmarshalYAML takes the scalar text as written, quoted or not, without timestamp resolution.
func (d *Date) UnmarshalYAML(b []byte) error {
	v := strings.TrimSpace(string(b))
	switch {
	case v == "~" || v == "null":
		v = ""
	case len(v) >= 2 && v[0] == '"':
		u, err := strconv.Unquote(v)
		if err != nil {
			return err
		}
		v = u
	case len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'':
		v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	*d = Date(v)
	return nil
}

// Time parses the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

func (d Date) Valid() bool {
	_, err := d.Time()
	return err == nil
}

// InMonth reports whether the date is present and starts with yearMonth (YYYY-MM).
// It is a plain prefix match; the date is not parsed.
func (d Date) InMonth(yearMonth string) bool {
	return d != "" && strings.HasPrefix(string(d), yearMonth)
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Grades lists the sales grades in display order.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD}

// legacyGrades maps the labels written by the browser version of the tool.
var legacyGrades = map[string]Grade{
	"A級": GradeA,
	"B級": GradeB,
	"C級": GradeC,
	"D級": GradeD,
}

// ParseGrade accepts a canonical grade ("A"), its lower-case form or a legacy label ("A級").
func ParseGrade(s string) (Grade, bool) {
	s = strings.TrimSpace(s)
	if g, ok := legacyGrades[s]; ok {
		return g, true
	}
	g := Grade(strings.ToUpper(s))
	for _, known := range Grades {
		if g == known {
			return g, true
		}
	}
	return "", false
}

type ContactMethod string

const (
	ContactPhone   ContactMethod = "phone"
	ContactMessage ContactMethod = "message"

	DefaultContactMethod = ContactPhone
)

// ContactMethods lists the contact methods in display order.
var ContactMethods = []ContactMethod{ContactPhone, ContactMessage}

var legacyContactMethods = map[string]ContactMethod{
	"電話": ContactPhone,
	"訊息": ContactMessage,
}

// ParseContactMethod maps canonical and legacy labels. An empty value is the default method.
func ParseContactMethod(s string) (ContactMethod, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultContactMethod, true
	}
	if m, ok := legacyContactMethods[s]; ok {
		return m, true
	}
	m := ContactMethod(strings.ToLower(s))
	for _, known := range ContactMethods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// ClientFields holds everything a caller may set on a client record.
// Absent optional values are empty strings, both in memory and in the persisted slot.
type ClientFields struct {
	Name               string        `json:"name" yaml:"name"`
	Phone              string        `json:"phone" yaml:"phone"`
	Grade              Grade         `json:"grade" yaml:"grade"`
	Address            string        `json:"address" yaml:"address"`
	ContactMethod      ContactMethod `json:"contactMethod" yaml:"contactMethod"`
	LastContact        Date          `json:"lastContact" yaml:"lastContact"`
	NextContact        Date          `json:"nextContact" yaml:"nextContact"`
	PolicyExpiry       Date          `json:"policyExpiry" yaml:"policyExpiry"`
	CarInsuranceExpiry Date          `json:"carInsuranceExpiry" yaml:"carInsuranceExpiry"`
}

// ClientRecord is a stored client. ID is assigned by the store and never changes.
type ClientRecord struct {
	ID           string `json:"id" yaml:"id"`
	ClientFields `yaml:",inline"`
}

// Normalize trims free-text fields, maps legacy grade and contact labels and
// applies the default contact method. Values it cannot map are left for Validate.
func (f ClientFields) Normalize() ClientFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	if g, ok := ParseGrade(string(f.Grade)); ok {
		f.Grade = g
	}
	if m, ok := ParseContactMethod(string(f.ContactMethod)); ok {
		f.ContactMethod = m
	}
	f.LastContact = Date(strings.TrimSpace(string(f.LastContact)))
	f.NextContact = Date(strings.TrimSpace(string(f.NextContact)))
	f.PolicyExpiry = Date(strings.TrimSpace(string(f.PolicyExpiry)))
	f.CarInsuranceExpiry = Date(strings.TrimSpace(string(f.CarInsuranceExpiry)))
	return f
}

// Validate expects normalized fields. The returned error is a *ValidationError.
func (f ClientFields) Validate() error {
	if f.Name == "" {
		return invalid("name", "is required")
	}
	if f.Phone == "" {
		return invalid("phone", "is required")
	}
	if f.Grade == "" {
		return invalid("grade", "is required")
	}
	if _, ok := ParseGrade(string(f.Grade)); !ok {
		return invalid("grade", "must be one of A, B, C, D")
	}
	if _, ok := ParseContactMethod(string(f.ContactMethod)); !ok {
		return invalid("contactMethod", "must be phone or message")
	}
	dates := []struct {
		field string
		value Date
	}{
		{"lastContact", f.LastContact},
		{"nextContact", f.NextContact},
		{"policyExpiry", f.PolicyExpiry},
		{"carInsuranceExpiry", f.CarInsuranceExpiry},
	}
	for _, d := range dates {
		if !d.value.IsZero() && !d.value.Valid() {
			return invalid(d.field, "must be a YYYY-MM-DD date")
		}
	}
	return nil
}
