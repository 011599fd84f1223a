package models

import (
	"math"
	"time"
)

// Support levels of the current counter set, ordered from least to most support.
const (
	SupportIndependent = "independent"
	SupportMinimal     = "minimal_support"
	SupportModerate    = "moderate_support"
	SupportMaximal     = "maximal_support"
)

// SupportLevels is the escalating order used by PercentCorrectUpTo.
var SupportLevels = []string{SupportIndependent, SupportMinimal, SupportModerate, SupportMaximal}

// Trial log buckets.
const (
	TrialSystemNew          = "new"
	TrialSystemLegacy       = "legacy"
	TrialSystemUnclassified = "unclassified"
)

// TrialLog records practice-trial outcomes for one objective on one date.
type TrialLog struct {
	ID            int64     `db:"id" json:"id"`
	StudentID     int64     `db:"student_id" json:"student_id"`
	ObjectiveID   *int64    `db:"objective_id" json:"objective_id,omitempty"`
	DateOfSession time.Time `db:"date_of_session" json:"date_of_session"`

	CorrectNoSupport       int `db:"correct_no_support" json:"correct_no_support"`
	CorrectVisualCue       int `db:"correct_visual_cue" json:"correct_visual_cue"`
	CorrectVerbalCue       int `db:"correct_verbal_cue" json:"correct_verbal_cue"`
	CorrectVisualVerbalCue int `db:"correct_visual_verbal_cue" json:"correct_visual_verbal_cue"`
	CorrectModeling        int `db:"correct_modeling" json:"correct_modeling"`
	Incorrect              int `db:"incorrect" json:"incorrect"`

	Independent     int `db:"independent" json:"independent"`
	MinimalSupport  int `db:"minimal_support" json:"minimal_support"`
	ModerateSupport int `db:"moderate_support" json:"moderate_support"`
	MaximalSupport  int `db:"maximal_support" json:"maximal_support"`
	IncorrectNew    int `db:"incorrect_new" json:"incorrect_new"`

	Notes *string `db:"notes" json:"notes,omitempty"`
}

// TotalTrials sums the legacy counters.
func (t TrialLog) TotalTrials() int {
	return t.CorrectNoSupport + t.CorrectVisualCue + t.CorrectVerbalCue +
		t.CorrectVisualVerbalCue + t.CorrectModeling + t.Incorrect
}

// TotalTrialsNew sums the support-level counters.
func (t TrialLog) TotalTrialsNew() int {
	return t.Independent + t.MinimalSupport + t.ModerateSupport + t.MaximalSupport + t.IncorrectNew
}

// PercentNoSupport is the share of legacy trials correct without support.
func (t TrialLog) PercentNoSupport() float64 {
	return percent(t.CorrectNoSupport, t.TotalTrials())
}

// PercentWithOneCue counts correct trials needing at most a single visual or verbal cue.
func (t TrialLog) PercentWithOneCue() float64 {
	return percent(t.CorrectNoSupport+t.CorrectVisualCue+t.CorrectVerbalCue, t.TotalTrials())
}

// PercentVisualVerbalCues adds combined visual and verbal cueing to PercentWithOneCue.
func (t TrialLog) PercentVisualVerbalCues() float64 {
	return percent(t.CorrectNoSupport+t.CorrectVisualCue+t.CorrectVerbalCue+t.CorrectVisualVerbalCue, t.TotalTrials())
}

// PercentWithModeling counts every correct legacy trial, modeling included.
func (t TrialLog) PercentWithModeling() float64 {
	return percent(t.CorrectNoSupport+t.CorrectVisualCue+t.CorrectVerbalCue+t.CorrectVisualVerbalCue+t.CorrectModeling, t.TotalTrials())
}

func (t TrialLog) PercentIndependent() float64 { return percent(t.Independent, t.TotalTrialsNew()) }

func (t TrialLog) PercentMinimalSupport() float64 {
	return percent(t.MinimalSupport, t.TotalTrialsNew())
}

func (t TrialLog) PercentModerateSupport() float64 {
	return percent(t.ModerateSupport, t.TotalTrialsNew())
}

func (t TrialLog) PercentMaximalSupport() float64 {
	return percent(t.MaximalSupport, t.TotalTrialsNew())
}

func (t TrialLog) PercentIncorrectNew() float64 { return percent(t.IncorrectNew, t.TotalTrialsNew()) }

// PercentCorrectUpTo is the share of trials correct at or below the given support level.
// Unknown levels yield 0.
func (t TrialLog) PercentCorrectUpTo(level string) float64 {
	total := t.TotalTrialsNew()
	if total == 0 {
		return 0
	}
	counts := []int{t.Independent, t.MinimalSupport, t.ModerateSupport, t.MaximalSupport}
	for i, candidate := range SupportLevels {
		if candidate != level {
			continue
		}
		sum := 0
		for _, c := range counts[:i+1] {
			sum += c
		}
		return percent(sum, total)
	}
	return 0
}

// UsesLegacySystem reports whether any legacy counter is non-zero.
func (t TrialLog) UsesLegacySystem() bool {
	return t.CorrectNoSupport != 0 || t.CorrectVisualCue != 0 || t.CorrectVerbalCue != 0 ||
		t.CorrectVisualVerbalCue != 0 || t.CorrectModeling != 0 || t.Incorrect != 0
}

// UsesNewSystem reports whether any support-level counter is non-zero.
func (t TrialLog) UsesNewSystem() bool {
	return t.Independent != 0 || t.MinimalSupport != 0 || t.ModerateSupport != 0 ||
		t.MaximalSupport != 0 || t.IncorrectNew != 0
}

// System buckets the log for display. Logs with data in both counter sets count as new.
func (t TrialLog) System() string {
	switch {
	case t.UsesNewSystem():
		return TrialSystemNew
	case t.UsesLegacySystem():
		return TrialSystemLegacy
	default:
		return TrialSystemUnclassified
	}
}

// Metrics snapshots every derived percentage.
func (t TrialLog) Metrics() TrialMetrics {
	return TrialMetrics{
		System:                     t.System(),
		TotalTrials:                t.TotalTrials(),
		TotalTrialsNew:             t.TotalTrialsNew(),
		PercentNoSupport:           t.PercentNoSupport(),
		PercentWithOneCue:          t.PercentWithOneCue(),
		PercentVisualVerbalCues:    t.PercentVisualVerbalCues(),
		PercentWithModeling:        t.PercentWithModeling(),
		PercentIndependent:         t.PercentIndependent(),
		PercentMinimalSupport:      t.PercentMinimalSupport(),
		PercentModerateSupport:     t.PercentModerateSupport(),
		PercentMaximalSupport:      t.PercentMaximalSupport(),
		PercentIncorrectNew:        t.PercentIncorrectNew(),
		PercentCorrectUpToMinimal:  t.PercentCorrectUpTo(SupportMinimal),
		PercentCorrectUpToModerate: t.PercentCorrectUpTo(SupportModerate),
	}
}

// TrialMetrics is the serialisable form of a log's derived percentages.
type TrialMetrics struct {
	System                     string  `json:"system"`
	TotalTrials                int     `json:"total_trials"`
	TotalTrialsNew             int     `json:"total_trials_new"`
	PercentNoSupport           float64 `json:"percent_no_support"`
	PercentWithOneCue          float64 `json:"percent_with_1_cue"`
	PercentVisualVerbalCues    float64 `json:"percent_visual_verbal_cues"`
	PercentWithModeling        float64 `json:"percent_with_modeling"`
	PercentIndependent         float64 `json:"percent_independent"`
	PercentMinimalSupport      float64 `json:"percent_minimal_support"`
	PercentModerateSupport     float64 `json:"percent_moderate_support"`
	PercentMaximalSupport      float64 `json:"percent_maximal_support"`
	PercentIncorrectNew        float64 `json:"percent_incorrect_new"`
	PercentCorrectUpToMinimal  float64 `json:"percent_correct_up_to_minimal"`
	PercentCorrectUpToModerate float64 `json:"percent_correct_up_to_moderate"`
}

// TrialLogView pairs a stored log with its metrics.
type TrialLogView struct {
	TrialLog
	ObjectiveDescription *string      `db:"objective_description" json:"objective_description,omitempty"`
	Metrics              TrialMetrics `db:"-" json:"metrics"`
}

// TrialLogBuckets groups logs by counter system.
type TrialLogBuckets struct {
	New          []TrialLogView `json:"new_logs"`
	Legacy       []TrialLogView `json:"legacy_logs"`
	Unclassified []TrialLogView `json:"unclassified_logs"`
}

// Add places a log in its bucket after computing metrics.
func (b *TrialLogBuckets) Add(view TrialLogView) {
	view.Metrics = view.TrialLog.Metrics()
	switch view.Metrics.System {
	case TrialSystemNew:
		b.New = append(b.New, view)
	case TrialSystemLegacy:
		b.Legacy = append(b.Legacy, view)
	default:
		b.Unclassified = append(b.Unclassified, view)
	}
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
