package narrative

import (
	"fmt"
	"strings"
)

// OtherOption marks a picker choice whose value comes from a free-text companion field.
const OtherOption = "Other"

// DefaultSessionType is used when the form leaves the session type blank.
const DefaultSessionType = "Individual"

// SessionTypes are the session type choices on the SOAP form.
var SessionTypes = []string{"Individual", "Group"}

// DefaultSupportLevel stands in when "Other" is chosen without custom text.
const DefaultSupportLevel = "with support"

// SupportLevelOptions are the support phrases offered for the accuracy sentence.
var SupportLevelOptions = []string{
	"independently", "with minimal support", "with moderate support", "with maximal support", OtherOption,
}

// VisualCueOptions and VerbalCueOptions seed the cue multi-selects.
var (
	VisualCueOptions = []string{"Pointing", "Gestures", "Picture cards", "Written words", "Visual schedule"}
	VerbalCueOptions = []string{"Phonemic cues", "Semantic cues", "Repetition", "Verbal prompts", "Sentence starters"}
)

// Months are the month names offered by the SOAP form.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// SoapInput carries the resolved form values for one SOAP note.
type SoapInput struct {
	StudentName   string
	Pronouns      string
	Month         string
	SessionNumber string
	TotalSessions string
	SessionType   string
	Performance   string
	AdditionalS   string
	Activity      string
	Objective     string
	Accuracy      string
	SupportLevel  string
	AdditionalO   string
	VisualCues    []string
	VerbalCues    []string
	Signature     string
}

// SoapNote holds the four generated sections.
type SoapNote struct {
	Subjective string `json:"s_note"`
	Objective  string `json:"o_note"`
	Assessment string `json:"a_note"`
	Plan       string `json:"p_note"`
}

// Text renders the note in the stored "S: ...\nO: ..." layout.
func (n SoapNote) Text() string {
	return FormatSoapNote(n.Subjective, n.Objective, n.Assessment, n.Plan)
}

// FormatSoapNote lays out already-written sections as a single note.
func FormatSoapNote(s, o, a, p string) string {
	return fmt.Sprintf("S: %s\nO: %s\nA: %s\nP: %s", s, o, a, p)
}

// BuildSoapNote assembles the four sections from the form input.
func BuildSoapNote(in SoapInput) SoapNote {
	p := ResolvePronouns(in.Pronouns)
	subject := p.SubjectTitle()
	verb := p.VerbBe()

	sessionType := strings.TrimSpace(in.SessionType)
	if sessionType == "" {
		sessionType = DefaultSessionType
	}

	s := fmt.Sprintf("%s Session %s/%s: %s attended %s %s speech therapy session. %s %s %s.",
		in.Month, in.SessionNumber, in.TotalSessions, in.StudentName, p.Possessive,
		strings.ToLower(sessionType), subject, verb, in.Performance)
	s = appendText(s, in.AdditionalS)

	o := fmt.Sprintf("%s %s given %s. %s %s able to %s with %s%% accuracy %s.",
		subject, verb, strings.ToLower(in.Activity), subject, verb, in.Objective, in.Accuracy, in.SupportLevel)
	o = appendText(o, in.AdditionalO)

	return SoapNote{
		Subjective: s,
		Objective:  o,
		Assessment: assessment(subject, compact(in.VisualCues), compact(in.VerbalCues)),
		Plan:       strings.TrimSpace("Continue to target IEP goals. " + in.Signature),
	}
}

func assessment(subject string, visual, verbal []string) string {
	switch {
	case len(visual) > 0 && len(verbal) > 0:
		return fmt.Sprintf("%s benefited from visual and verbal cues. Visual cues included %s. Verbal cues included %s.",
			subject, JoinList(visual), JoinList(verbal))
	case len(visual) > 0:
		return fmt.Sprintf("%s benefited from visual cues. Visual cues included %s.", subject, JoinList(visual))
	case len(verbal) > 0:
		return fmt.Sprintf("%s benefited from verbal cues. Verbal cues included %s.", subject, JoinList(verbal))
	default:
		return subject + " did not require visual or verbal cues during this session."
	}
}

// ChooseOther returns other when the selection is the "Other" option, else the selection.
func ChooseOther(selected, other string) string {
	if selected == OtherOption {
		return strings.TrimSpace(other)
	}
	return selected
}

// WithOther appends a non-blank free-text entry to a multi-select list.
func WithOther(items []string, other string) []string {
	out := compact(items)
	if trimmed := strings.TrimSpace(other); trimmed != "" {
		out = append(out, trimmed)
	}
	return out
}

func appendText(base, extra string) string {
	if extra = strings.TrimSpace(extra); extra != "" {
		return base + " " + extra
	}
	return base
}
