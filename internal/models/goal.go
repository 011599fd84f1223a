package models

// Goal is an IEP goal owned by a student.
type Goal struct {
	ID          int64  `db:"id" json:"id"`
	StudentID   int64  `db:"student_id" json:"student_id"`
	Description string `db:"goal_description" json:"goal_description"`
	Active      bool   `db:"active" json:"active"`
}

// Objective is a measurable step under a goal.
type Objective struct {
	ID           int64   `db:"id" json:"id"`
	GoalID       int64   `db:"goal_id" json:"goal_id"`
	Description  string  `db:"objective_description" json:"objective_description"`
	WithAccuracy *string `db:"with_accuracy" json:"with_accuracy,omitempty"`
	Notes        *string `db:"notes" json:"notes,omitempty"`
	Active       bool    `db:"active" json:"active"`
}

// GoalWithObjectives nests a goal's objectives for display and report generation.
type GoalWithObjectives struct {
	Goal
	Objectives []Objective `json:"objectives"`
}

// StudentObjective is an objective joined with its owning student, used by pickers.
type StudentObjective struct {
	Objective
	StudentID       int64  `db:"student_id" json:"student_id"`
	GoalDescription string `db:"goal_description_text" json:"goal_description"`
}
