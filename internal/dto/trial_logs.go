package dto

import "github.com/noah-isme/slp-caseload/internal/models"

// TrialLogForm feeds the trial entry form.
type TrialLogForm struct {
	Students          []models.Student          `json:"students"`
	Objectives        []models.StudentObjective `json:"objectives"`
	SelectedStudentID *int64                    `json:"selected_student_id,omitempty"`
	Today             string                    `json:"today"`
	SupportLevels     []string                  `json:"support_levels"`
}

// StudentTrialLogsResponse groups one student's logs by counter system.
type StudentTrialLogsResponse struct {
	Student   models.Student         `json:"student"`
	TrialLogs models.TrialLogBuckets `json:"trial_logs"`
}

// TrialLogsByDateResponse lists every log recorded on one date.
type TrialLogsByDateResponse struct {
	Date      string                `json:"date"`
	TrialLogs []models.TrialLogView `json:"trial_logs"`
	Message   string                `json:"-"`
}
