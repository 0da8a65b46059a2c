package analysis

import (
	"fmt"
	"strings"

	"github.com/pavelanni/eduimpact/internal/model"
)

// NotConfiguredNarrative is shown when no API key is set.
func NotConfiguredNarrative(category model.Category, scores model.ScoreTriple) string {
	return fmt.Sprintf(`**AI Analysis Service Not Available**

**Configuration Issue**: The AI analysis service requires a valid Groq API key to function.

**Your Prediction Results:**
- Performance Category: **%s**
- Predicted Scores: %s

**Next Steps:**
1. Administrator needs to configure the Groq API key
2. Get a free API key from: https://console.groq.com/
3. Run `+"`eduimpact setup-key`"+` or set the EDUIMPACT_LLM_KEY environment variable

Your academic performance prediction has been completed successfully. Once the API key is configured, you'll receive detailed AI-powered insights about environmental factors affecting performance.`,
		category, scores)
}

// UnavailableNarrative is shown when every attempt against the service failed.
func UnavailableNarrative(category model.Category, scores model.ScoreTriple, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return fmt.Sprintf(`I apologize, but our AI analysis service is currently experiencing technical difficulties.

**Error Details**: %s

**Your Prediction Results:**
- Performance Category: **%s**
- Predicted Scores: %s

While I cannot provide the detailed AI analysis at this moment, your academic performance prediction has been completed successfully. Please try again later for the personalized AI insights, or contact support if the issue persists.`,
		detail, category, scores)
}

// RuleBasedNarrative writes a multi-section analysis from the profile alone.
// The output depends only on its arguments.
func RuleBasedNarrative(p model.StudentProfile, category model.Category, scores model.ScoreTriple) string {
	var sb strings.Builder

	section(&sb, "Performance Assessment",
		fmt.Sprintf("Your predicted scores are %s, which places you in the **%s** category. %s",
			scores, category, assessment(category)))

	section(&sb, "Family Background", familyNotes(p)...)
	section(&sb, "Study Habits", studyNotes(p)...)
	section(&sb, "Social Factors", socialNotes(p)...)
	section(&sb, "Learning Environment", environmentNotes(p)...)
	section(&sb, "Health & Attendance", healthNotes(p)...)

	sb.WriteString("## Recommendations\n\n")
	for _, r := range recommendations(p, category) {
		sb.WriteString("- " + r + "\n")
	}
	sb.WriteString("\n")

	section(&sb, "Future Outlook", outlook(category))
	sb.WriteString("*This analysis was generated from your profile without the AI service. Try again later for a personalized AI review.*")
	return sb.String()
}

// section writes a heading followed by either a paragraph (one line) or a bullet list.
func section(sb *strings.Builder, title string, lines ...string) {
	sb.WriteString("## " + title + "\n\n")
	if len(lines) == 1 {
		sb.WriteString(lines[0] + "\n\n")
		return
	}
	for _, l := range lines {
		sb.WriteString("- " + l + "\n")
	}
	sb.WriteString("\n")
}

func assessment(c model.Category) string {
	switch c {
	case model.CategoryGood:
		return "All three scores are comfortably above the excellence mark, so the current routine is working well."
	case model.CategoryGoodCanBeBetter:
		return "You are passing every period, and with a little more consistency the scores can move into the top band."
	case model.CategoryScope:
		return "One period is below the passing mark, which shows a specific gap worth addressing early."
	case model.CategoryCanBeBetter:
		return "Two periods are below the passing mark, so a structured plan at home and at school is needed."
	default:
		return "All three periods are below the passing mark; the environment around studying needs the most attention."
	}
}

func familyNotes(p model.StudentProfile) []string {
	var notes []string

	avg := float64(p.MEdu+p.FEdu) / 2
	switch {
	case avg >= 3:
		notes = append(notes, "**Parental education** is strong, which usually means good guidance with schoolwork is available at home.")
	case avg >= 2:
		notes = append(notes, "**Parental education** is moderate; parents can help most by showing interest and keeping a study routine.")
	default:
		notes = append(notes, "**Parental education** is limited, but encouragement and regular check-ins matter more than formal schooling.")
	}

	if p.PStatus == 1 {
		notes = append(notes, "Parents live together, which helps keep routines consistent.")
	} else {
		notes = append(notes, "Parents live apart; agreeing on shared study expectations across both homes helps.")
	}

	switch {
	case p.FamRel >= 4:
		notes = append(notes, fmt.Sprintf("Family relationships are good (%d/5), a solid base for emotional support.", p.FamRel))
	case p.FamRel <= 2:
		notes = append(notes, fmt.Sprintf("Family relationships are strained (%d/5); stress at home often shows up in school results.", p.FamRel))
	default:
		notes = append(notes, fmt.Sprintf("Family relationships are average (%d/5).", p.FamRel))
	}

	if p.FamSup == 1 {
		notes = append(notes, "The family already provides educational support.")
	} else {
		notes = append(notes, "There is currently no family educational support.")
	}
	notes = append(notes, fmt.Sprintf("Primary guardian: %s.", strings.ToLower(model.GuardianLabel(p.Guardian))))
	return notes
}

func studyNotes(p model.StudentProfile) []string {
	var notes []string

	hours := []string{"less than 2 hours", "2 to 5 hours", "5 to 10 hours", "more than 10 hours"}
	idx := p.StudyTime - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(hours) {
		idx = len(hours) - 1
	}
	if p.StudyTime <= 2 {
		notes = append(notes, fmt.Sprintf("Weekly study time is %s, which is on the low side.", hours[idx]))
	} else {
		notes = append(notes, fmt.Sprintf("Weekly study time is %s, a healthy amount.", hours[idx]))
	}

	if p.Failures > 0 {
		notes = append(notes, fmt.Sprintf("There are %d past class failures; revisiting those topics prevents gaps from compounding.", p.Failures))
	} else {
		notes = append(notes, "No past class failures.")
	}
	if p.SchoolSup == 1 {
		notes = append(notes, "Extra educational support from school is in place.")
	}
	if p.Paid == 1 {
		notes = append(notes, "Paid extra classes are being taken.")
	}
	if p.Higher == 1 {
		notes = append(notes, "Wants to pursue higher education, a strong motivator.")
	} else {
		notes = append(notes, "Does not currently plan higher education; connecting studies to personal goals can raise motivation.")
	}
	return notes
}

func socialNotes(p model.StudentProfile) []string {
	var notes []string
	switch {
	case p.GoOut >= 4:
		notes = append(notes, fmt.Sprintf("Going out with friends is frequent (%d/5); balancing it with study time matters.", p.GoOut))
	case p.GoOut <= 2:
		notes = append(notes, fmt.Sprintf("Going out with friends is infrequent (%d/5); some social time supports wellbeing.", p.GoOut))
	default:
		notes = append(notes, fmt.Sprintf("Social life is balanced (%d/5).", p.GoOut))
	}
	if p.FreeTime >= 4 {
		notes = append(notes, fmt.Sprintf("There is plenty of free time after school (%d/5) that could partly go to revision.", p.FreeTime))
	} else {
		notes = append(notes, fmt.Sprintf("Free time after school: %d/5.", p.FreeTime))
	}
	if p.Activities == 1 {
		notes = append(notes, "Takes part in extracurricular activities, which builds discipline.")
	} else {
		notes = append(notes, "No extracurricular activities at the moment.")
	}
	if p.Romantic == 1 {
		notes = append(notes, "In a romantic relationship; keeping a clear study schedule helps.")
	}
	return notes
}

func environmentNotes(p model.StudentProfile) []string {
	var notes []string
	notes = append(notes, fmt.Sprintf("Lives in a %s area with a %s family.",
		strings.ToLower(p.AddressLabel()), strings.ToLower(p.FamSizeLabel())))
	if p.Internet == 1 {
		notes = append(notes, "Has internet access at home for research and online resources.")
	} else {
		notes = append(notes, "No internet access at home; libraries or school labs can fill the gap.")
	}
	if p.TravelTime >= 3 {
		notes = append(notes, "The commute to school is long, which eats into rest and study time.")
	} else {
		notes = append(notes, "The commute to school is short.")
	}
	return notes
}

func healthNotes(p model.StudentProfile) []string {
	var notes []string
	switch {
	case p.Health <= 2:
		notes = append(notes, fmt.Sprintf("Health status is poor (%d/5); sleep, nutrition and check-ups come first.", p.Health))
	case p.Health >= 4:
		notes = append(notes, fmt.Sprintf("Health status is good (%d/5).", p.Health))
	default:
		notes = append(notes, fmt.Sprintf("Health status is fair (%d/5).", p.Health))
	}
	switch {
	case p.Absences > 10:
		notes = append(notes, fmt.Sprintf("%d absences this year is high; missed lessons are a major risk to results.", p.Absences))
	case p.Absences > 5:
		notes = append(notes, fmt.Sprintf("%d absences this year is moderate; try to keep attendance steady.", p.Absences))
	default:
		notes = append(notes, fmt.Sprintf("Attendance is good with %d absences.", p.Absences))
	}
	return notes
}

func recommendations(p model.StudentProfile, c model.Category) []string {
	var recs []string
	switch c {
	case model.CategoryGood:
		recs = append(recs,
			"Keep the current routine and consider advanced or enrichment material.",
			"Share study techniques with classmates; teaching others reinforces learning.")
	case model.CategoryGoodCanBeBetter:
		recs = append(recs,
			"Identify the weakest period's topics and schedule short, regular reviews.",
			"Set specific score goals for the next term.")
	case model.CategoryScope:
		recs = append(recs,
			"Focus extra sessions on the subject that is below the passing mark.",
			"Ask teachers for feedback on where marks are being lost.")
	case model.CategoryCanBeBetter:
		recs = append(recs,
			"Build a weekly study plan with the family and review it every weekend.",
			"Use school support programs or tutoring for the failing subjects.")
	default:
		recs = append(recs,
			"Meet with teachers and family together to agree on a recovery plan.",
			"Start with short daily study blocks and increase them gradually.",
			"Use all available school support and tutoring.")
	}

	if p.StudyTime <= 2 {
		recs = append(recs, "Increase weekly study time with a fixed daily slot.")
	}
	if p.Absences > 5 {
		recs = append(recs, "Improve attendance; every missed lesson widens the gap.")
	}
	if p.GoOut >= 4 {
		recs = append(recs, "Limit outings on school nights.")
	}
	if p.Health <= 2 {
		recs = append(recs, "Prioritize sleep, regular meals and a health check-up.")
	}
	if p.Internet == 0 {
		recs = append(recs, "Plan regular library or school lab sessions for online resources.")
	}
	if p.FamSup == 0 {
		recs = append(recs, "Parents can help by asking about school daily and providing a quiet study space.")
	}
	if p.FamRel <= 2 {
		recs = append(recs, "Consider counseling or family activities to reduce stress at home.")
	}
	return recs
}

func outlook(c model.Category) string {
	switch c {
	case model.CategoryGood:
		return "The outlook is excellent. Maintaining these habits should keep results at the top."
	case model.CategoryGoodCanBeBetter:
		return "The outlook is positive. Small, steady adjustments can lift all three scores above 15."
	case model.CategoryScope:
		return "The outlook is encouraging. Closing one gap early can move you to passing every period."
	case model.CategoryCanBeBetter:
		return "Improvement is realistic with consistent effort and support at home and school."
	default:
		return "Progress is absolutely possible. Changes in routine and support often show results within a term."
	}
}
