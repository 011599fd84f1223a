package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePronouns(t *testing.T) {
	cases := []struct {
		stored  string
		subject string
		poss    string
		verb    string
	}{
		{"She/Her", "she", "her", "was"},
		{"he/him", "he", "his", "was"},
		{"", "they", "their", "were"},
		{"They", "they", "their", "were"},
		{"other", "they", "their", "were"},
		{"she/they", "she", "her", "was"},
		{"he/they", "they", "their", "were"},
		{"ze/zir", "they", "their", "were"},
	}
	for _, tc := range cases {
		p := ResolvePronouns(tc.stored)
		assert.Equal(t, tc.subject, p.Subject, tc.stored)
		assert.Equal(t, tc.poss, p.Possessive, tc.stored)
		assert.Equal(t, tc.verb, p.VerbBe(), tc.stored)
	}
}

func TestResolvePronounsMixedSets(t *testing.T) {
	for _, stored := range []string{"he/they", "They/Him", " HE / THEY ", "he/him/they"} {
		assert.Equal(t, "they", ResolvePronouns(stored).Subject, stored)
	}
	assert.Equal(t, "she", ResolvePronouns("she/he").Subject)
	assert.Equal(t, "he", ResolvePronouns("he").Subject)
	assert.Equal(t, "him", ResolvePronouns("he / him").Object)
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", JoinList(nil))
	assert.Equal(t, "pointing", JoinList([]string{"Pointing"}))
	assert.Equal(t, "pointing and gestures", JoinList([]string{"Pointing", "Gestures"}))
	assert.Equal(t, "a, b, and c", JoinList([]string{"A", "B", "C"}))
}

func TestBuildSoapNoteSections(t *testing.T) {
	note := BuildSoapNote(SoapInput{
		StudentName:   "Ana",
		Pronouns:      "She/Her",
		Month:         "October",
		SessionNumber: "2",
		TotalSessions: "4",
		SessionType:   "Group",
		Performance:   "engaged and cooperative",
		AdditionalS:   "Arrived on time.",
		Activity:      "Card Games",
		Objective:     "produce /s/ in initial position",
		Accuracy:      "80",
		SupportLevel:  "with minimal support",
		VisualCues:    []string{"Pointing"},
		VerbalCues:    []string{"Phonemic cues", "Repetition"},
		Signature:     "-Sean Hendricks, MA CCC-SLP",
	})

	assert.Equal(t, "October Session 2/4: Ana attended her group speech therapy session. She was engaged and cooperative. Arrived on time.", note.Subjective)
	assert.Equal(t, "She was given card games. She was able to produce /s/ in initial position with 80% accuracy with minimal support.", note.Objective)
	assert.Equal(t, "She benefited from visual and verbal cues. Visual cues included pointing. Verbal cues included phonemic cues and repetition.", note.Assessment)
	assert.Equal(t, "Continue to target IEP goals. -Sean Hendricks, MA CCC-SLP", note.Plan)
	assert.Equal(t, "S: "+note.Subjective+"\nO: "+note.Objective+"\nA: "+note.Assessment+"\nP: "+note.Plan, note.Text())
}

func TestBuildSoapNoteAssessmentBranches(t *testing.T) {
	base := SoapInput{StudentName: "Sam", SessionType: ""}

	visualOnly := base
	visualOnly.VisualCues = []string{"Picture cards", "Gestures", "Modeling"}
	assert.Equal(t, "They benefited from visual cues. Visual cues included picture cards, gestures, and modeling.", BuildSoapNote(visualOnly).Assessment)

	verbalOnly := base
	verbalOnly.VerbalCues = []string{"Prompts"}
	assert.Equal(t, "They benefited from verbal cues. Verbal cues included prompts.", BuildSoapNote(verbalOnly).Assessment)

	none := base
	none.VisualCues = []string{"  "}
	assert.Equal(t, "They did not require visual or verbal cues during this session.", BuildSoapNote(none).Assessment)

	assert.Contains(t, BuildSoapNote(base).Subjective, "their individual speech therapy session. They were")
}

func TestChooseOtherAndWithOther(t *testing.T) {
	assert.Equal(t, "Board game", ChooseOther("Board game", "ignored"))
	assert.Equal(t, "Puppets", ChooseOther(OtherOption, " Puppets "))
	assert.Equal(t, []string{"Pointing", "Sign"}, WithOther([]string{"Pointing", ""}, "Sign"))
}

func TestBuildQuarterlyParagraphs(t *testing.T) {
	paragraphs := BuildQuarterlyParagraphs(QuarterlyInput{
		FirstName: "Ana",
		Pronouns:  "she/her",
		Quarter:   "Q2",
		Progress:  "Steady Progress",
		Closing:   "Keep up the great work!",
		Goals: []GoalProgress{
			{
				Objectives: []ObjectiveProgress{
					{Description: "produce /r/", Measurements: []Measurement{{Percent: "80", Support: "With minimal support"}, {Percent: "60", Support: "independently"}}},
					{Description: "answer wh- questions", Measurements: []Measurement{{Percent: " ", Support: "independently"}}},
				},
				VisualCues: []string{"Pictures"},
			},
			{
				Objectives: []ObjectiveProgress{
					{Description: "follow directions", Measurements: []Measurement{{Percent: "70", Support: "a"}, {Percent: "75", Support: "b"}, {Percent: "90", Support: "c"}}},
				},
			},
		},
	})

	require.Len(t, paragraphs, 2)
	assert.Equal(t, "Ana demonstrated steady progress in the second quarter. She was able to produce /r/ with 80% accuracy with minimal support and with 60% accuracy independently. Visual cues included pictures. Keep up the great work!", paragraphs[0])
	assert.Equal(t, "Ana demonstrated steady progress in the second quarter. She was able to follow directions with 70% accuracy a, with 75% accuracy b, and with 90% accuracy c. Keep up the great work!", paragraphs[1])
}

func TestQuarterlySubjectFallsBackToFirstName(t *testing.T) {
	paragraphs := BuildQuarterlyParagraphs(QuarterlyInput{
		FirstName: "Leo",
		Quarter:   "Q9",
		Progress:  "Minimal Progress",
		Goals: []GoalProgress{{Objectives: []ObjectiveProgress{{Description: "sort items", Measurements: []Measurement{{Percent: "50", Support: "with cues"}}}}}},
	})
	require.Len(t, paragraphs, 1)
	assert.Equal(t, "Leo demonstrated minimal progress in Q9. Leo was able to sort items with 50% accuracy with cues.", paragraphs[0])
}

func TestAppendSignature(t *testing.T) {
	assert.Equal(t, "One.\n\nTwo.\n\n-SLP", AppendSignature([]string{"One.", "", "Two."}, "-SLP"))
	assert.Equal(t, "-SLP", AppendSignature(nil, "-SLP"))
}
