package models

import (
	"strconv"
	"strings"
	"time"
)

// Student represents a child on the clinician's caseload.
type Student struct {
	ID               int64      `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	PreferredName    *string    `db:"preferred_name" json:"preferred_name,omitempty"`
	Pronouns         *string    `db:"pronouns" json:"pronouns,omitempty"`
	Grade            *string    `db:"grade" json:"grade,omitempty"`
	MonthlyServices  *string    `db:"monthly_services" json:"monthly_services,omitempty"`
	ReevaluationDate *time.Time `db:"reevaluation_date" json:"reevaluation_date,omitempty"`
	AnnualReviewDate *time.Time `db:"annual_review_date" json:"annual_review_date,omitempty"`
	Active           bool       `db:"active" json:"active"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// DisplayName prefers the preferred name over the legal first name.
func (s Student) DisplayName() string {
	if s.PreferredName != nil && strings.TrimSpace(*s.PreferredName) != "" {
		return strings.TrimSpace(*s.PreferredName)
	}
	return s.FirstName
}

// Initials returns the upper-cased first letters of first and last name.
func (s Student) Initials() string {
	var b strings.Builder
	for _, part := range []string{s.FirstName, s.LastName} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(string([]rune(part)[:1])))
	}
	return b.String()
}

// PronounValue returns the stored pronoun string or empty.
func (s Student) PronounValue() string {
	if s.Pronouns == nil {
		return ""
	}
	return *s.Pronouns
}

// MonthlyServiceCount parses monthly_services as a whole number of sessions; anything else counts as 0.
func (s Student) MonthlyServiceCount() int {
	if s.MonthlyServices == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s.MonthlyServices))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Grade  string
	Search string
}

// StudentDetail is a student with their active goals and objectives.
type StudentDetail struct {
	Student
	Goals []GoalWithObjectives `json:"goals"`
}
