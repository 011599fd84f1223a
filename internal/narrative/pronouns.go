// Package narrative assembles the clinical prose for SOAP notes and quarterly progress reports.
package narrative

import "strings"

// Pronouns is a subject/possessive/object triple.
type Pronouns struct {
	Subject    string
	Possessive string
	Object     string
}

var (
	pronounsHe   = Pronouns{Subject: "he", Possessive: "his", Object: "him"}
	pronounsShe  = Pronouns{Subject: "she", Possessive: "her", Object: "her"}
	pronounsThey = Pronouns{Subject: "they", Possessive: "their", Object: "them"}
)

var pronounTable = map[string]Pronouns{
	"he/him":    pronounsHe,
	"she/her":   pronounsShe,
	"they/them": pronounsThey,
	"other":     pronounsThey,
}

// ResolvePronouns maps a stored pronoun string onto a triple. Exact keys win; otherwise
// "she", "they" and "he" are matched as substrings in that order, and everything else is
// they/them.
func ResolvePronouns(stored string) Pronouns {
	key := strings.ToLower(strings.TrimSpace(stored))
	if key == "" {
		return pronounsThey
	}
	if p, ok := pronounTable[key]; ok {
		return p
	}
	// "she" and "they" both contain "he", so they must be tested first. Mixed sets such as
	// "he/they" therefore resolve to they/them.
	switch {
	case strings.Contains(key, "she"):
		return pronounsShe
	case strings.Contains(key, "they"):
		return pronounsThey
	case strings.Contains(key, "he"):
		return pronounsHe
	default:
		return pronounsThey
	}
}

// VerbBe returns "was" for singular he/she and "were" otherwise.
func (p Pronouns) VerbBe() string {
	if p.Subject == "he" || p.Subject == "she" {
		return "was"
	}
	return "were"
}

// SubjectTitle is the capitalised subject pronoun for sentence starts.
func (p Pronouns) SubjectTitle() string {
	return Capitalize(p.Subject)
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// JoinList lower-cases items and joins them as an English list with an Oxford comma.
func JoinList(items []string) string {
	lowered := make([]string, 0, len(items))
	for _, item := range items {
		lowered = append(lowered, strings.ToLower(item))
	}
	return joinPhrases(lowered)
}

func joinPhrases(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
