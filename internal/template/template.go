// Package template holds the review prompt profiles sent to the model.
package template

import "strings"

// Type names a review prompt profile.
type Type string

const (
	// Chapter is the constructive first-pass review every chapter receives.
	Chapter Type = "chapter"
	// Methodology is the deep review of the methods chapter.
	Methodology Type = "methodology"
)

// Profile defines the instructions and the answer schema for one review kind.
type Profile struct {
	Type Type
	Name string
	// Instructions open the prompt. Overrides replace this part only, so the
	// answer schema stays intact.
	Instructions string
	// ResponseFormat closes the prompt and fixes the JSON shape of the answer.
	ResponseFormat string
}

// GetProfile returns the profile for kind. Unknown kinds get the chapter
// profile.
func GetProfile(kind string) Profile {
	switch Type(normalizeType(kind)) {
	case Methodology:
		return methodologyProfile()
	default:
		return chapterProfile()
	}
}

func normalizeType(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "methodology", "method", "methods", "deep":
		return string(Methodology)
	case "chapter", "first-pass", "firstpass", "":
		return string(Chapter)
	default:
		if strings.Contains(v, "method") {
			return string(Methodology)
		}
		return string(Chapter)
	}
}

// WithInstructions returns a copy of p whose instructions are replaced by
// override when override is non-blank.
func (p Profile) WithInstructions(override string) Profile {
	if strings.TrimSpace(override) != "" {
		p.Instructions = strings.TrimRight(override, "\n") + "\n"
	}
	return p
}

// BuildChapter renders the first-pass prompt for one chapter. isMethodology
// adds a line asking for attention to the methodological description.
func (p Profile) BuildChapter(title, content string, isMethodology bool) string {
	var sb strings.Builder
	sb.WriteString(p.Instructions)
	if isMethodology {
		sb.WriteString("שים לב: זהו פרק השיטה - התייחס גם לבהירות התיאור המתודולוגי.\n")
	}
	sb.WriteString("\n")
	sb.WriteString("שם הפרק: ")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString("תוכן הפרק:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")
	sb.WriteString(p.ResponseFormat)
	return sb.String()
}

// BuildMethodology renders the deep-review prompt for the methods chapter.
func (p Profile) BuildMethodology(content string) string {
	var sb strings.Builder
	sb.WriteString(p.Instructions)
	sb.WriteString("\n")
	sb.WriteString("תוכן פרק השיטה:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")
	sb.WriteString(p.ResponseFormat)
	return sb.String()
}

func chapterProfile() Profile {
	return Profile{
		Type: Chapter,
		Name: "Chapter review",
		Instructions: "אתה מנחה אקדמי מנוסה הבודק הצעת מחקר של סטודנט/ית לתואר ראשון.\n" +
			"קרא את הפרק הבא ותן בדיוק 3 הערות ביקורת בונות.\n" +
			"חשוב: שלב מחמאות כנות עם הצעות לשיפור. לפחות הערה אחת חיובית ולפחות הערה אחת ביקורתית.\n" +
			"התייחס לאיכות הכתיבה האקדמית, לבהירות הטיעונים, ולרמה המתאימה למחקר של תואר ראשון.\n",
		ResponseFormat: "תן את תשובתך בפורמט הבא בדיוק (JSON):\n" +
			"{\n" +
			"  \"comments\": [\n" +
			"    {\"type\": \"praise\", \"text\": \"הערה חיובית כאן\"},\n" +
			"    {\"type\": \"criticism\", \"text\": \"ביקורת בונה כאן\"},\n" +
			"    {\"type\": \"suggestion\", \"text\": \"הצעה לשיפור כאן\"}\n" +
			"  ],\n" +
			"  \"writingQuality\": \"good/fair/needs_improvement\",\n" +
			"  \"academicLevel\": \"appropriate/needs_work/insufficient\"\n" +
			"}\n" +
			"חשוב: ענה רק ב-JSON תקין, בעברית, ללא טקסט נוסף.",
	}
}

func methodologyProfile() Profile {
	return Profile{
		Type: Methodology,
		Name: "Methodology review",
		Instructions: "אתה מנחה אקדמי מנוסה הבודק את פרק השיטה/מתודולוגיה בהצעת מחקר של סטודנט/ית לתואר ראשון.\n" +
			"בצע סקירה מעמיקה ומפורטת של הפרק. התמקד בנקודות הבאות:\n\n" +
			"1. ניסוח - האם הניסוח ברור, מדויק ואקדמי?\n" +
			"2. בהירות - האם ברור מה הסטודנט/ית מתכוון/ת לעשות?\n" +
			"3. שיטת מחקר - האם השיטה מתאימה לשאלות/השערות המחקר?\n" +
			"4. אוכלוסיית מחקר - האם מוגדרת היטב? גודל מדגם, קריטריונים להכללה/הדרה?\n" +
			"5. כלי מחקר - האם מתוארים כראוי? תוקף ומהימנות?\n" +
			"6. הליך המחקר - האם שלבי המחקר ברורים?\n" +
			"7. שיקולים אתיים - האם נכללים?\n" +
			"8. הרחבה/השמטה - האם יש סעיפים שדורשים הרחבה? האם יש מידע מיותר?\n" +
			"9. נכונות - האם יש טענות לא נכונות או לא מדויקות?\n",
		ResponseFormat: "תן את תשובתך בפורמט הבא בדיוק (JSON):\n" +
			"{\n" +
			"  \"overallAssessment\": \"הערכה כללית בפסקה קצרה\",\n" +
			"  \"comments\": [\n" +
			"    {\"category\": \"קטגוריה\", \"type\": \"praise/criticism/suggestion\", \"text\": \"הערה מפורטת\", \"priority\": \"high/medium/low\"},\n" +
			"    ...\n" +
			"  ],\n" +
			"  \"clarity\": \"clear/mostly_clear/unclear\",\n" +
			"  \"completeness\": \"complete/mostly_complete/needs_expansion/missing_elements\",\n" +
			"  \"needsExpansion\": [\"סעיף 1\", \"סעיף 2\"],\n" +
			"  \"canBeRemoved\": [\"סעיף שמיותר אם יש\"]\n" +
			"}\n" +
			"חשוב: ענה רק ב-JSON תקין, בעברית, ללא טקסט נוסף. תן לפחות 5 הערות מפורטות.",
	}
}
