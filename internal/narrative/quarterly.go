package narrative

import (
	"fmt"
	"strings"
)

// Quarters are the selectable quarter codes.
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// ProgressOptions describe overall progress; "Other" takes custom text.
var ProgressOptions = []string{"Significant Progress", "Steady Progress", "Minimal Progress", OtherOption}

// ClosingOptions are the stock closing sentences; "Other" takes custom text.
var ClosingOptions = []string{
	"Keep up the great work!",
	"We will continue to focus on these skills in the next quarter.",
	"Progress is steady; adjustments will be made next quarter.",
	OtherOption,
}

var quarterPhrases = map[string]string{
	"Q1": "the first quarter",
	"Q2": "the second quarter",
	"Q3": "the third quarter",
	"Q4": "the fourth quarter",
}

// QuarterPhrase spells out a quarter code; unknown codes are returned unchanged.
func QuarterPhrase(quarter string) string {
	if phrase, ok := quarterPhrases[quarter]; ok {
		return phrase
	}
	return quarter
}

// ValidQuarter reports whether quarter is Q1..Q4.
func ValidQuarter(quarter string) bool {
	_, ok := quarterPhrases[quarter]
	return ok
}

// Measurement is one accuracy observation, e.g. 80 percent with minimal support.
type Measurement struct {
	Percent string
	Support string
}

// ObjectiveProgress lists the observations for one objective.
type ObjectiveProgress struct {
	Description  string
	Measurements []Measurement
}

// GoalProgress groups one goal's objectives and its optional cue lists.
type GoalProgress struct {
	Objectives []ObjectiveProgress
	VisualCues []string
	VerbalCues []string
}

// QuarterlyInput is everything needed to write a student's quarterly paragraphs.
type QuarterlyInput struct {
	FirstName string
	Pronouns  string
	Quarter   string
	Progress  string
	Closing   string
	Goals     []GoalProgress
}

// BuildQuarterlyParagraphs writes one paragraph per goal.
func BuildQuarterlyParagraphs(in QuarterlyInput) []string {
	subject, verb := quarterlySubject(in.FirstName, in.Pronouns)
	intro := fmt.Sprintf("%s demonstrated %s in %s.", in.FirstName, strings.ToLower(strings.TrimSpace(in.Progress)), QuarterPhrase(in.Quarter))

	paragraphs := make([]string, 0, len(in.Goals))
	for _, goal := range in.Goals {
		lines := []string{intro}
		for _, objective := range goal.Objectives {
			entries := make([]string, 0, len(objective.Measurements))
			for _, m := range objective.Measurements {
				if strings.TrimSpace(m.Percent) == "" {
					continue
				}
				entries = append(entries, fmt.Sprintf("with %s%% accuracy %s", strings.TrimSpace(m.Percent), strings.ToLower(strings.TrimSpace(m.Support))))
			}
			if len(entries) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s %s able to %s %s.", subject, verb, objective.Description, joinPhrases(entries)))
		}
		if visual := compact(goal.VisualCues); len(visual) > 0 {
			lines = append(lines, fmt.Sprintf("Visual cues included %s.", JoinList(visual)))
		}
		if verbal := compact(goal.VerbalCues); len(verbal) > 0 {
			lines = append(lines, fmt.Sprintf("Verbal cues included %s.", JoinList(verbal)))
		}
		if closing := strings.TrimSpace(in.Closing); closing != "" {
			lines = append(lines, closing)
		}
		paragraphs = append(paragraphs, strings.Join(lines, " "))
	}
	return paragraphs
}

// AppendSignature joins paragraphs with blank lines and adds the signature line.
func AppendSignature(paragraphs []string, signature string) string {
	body := strings.Join(compact(paragraphs), "\n\n")
	if signature = strings.TrimSpace(signature); signature != "" {
		if body == "" {
			return signature
		}
		return body + "\n\n" + signature
	}
	return body
}

// quarterlySubject uses the first listed pronoun, or the first name when none is stored.
func quarterlySubject(firstName, stored string) (string, string) {
	first := strings.TrimSpace(strings.SplitN(stored, "/", 2)[0])
	if first == "" {
		return firstName, "was"
	}
	if strings.EqualFold(first, "they") {
		return "They", "were"
	}
	return Capitalize(first), "was"
}
