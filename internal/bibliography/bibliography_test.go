package bibliography

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestCheckOrderSorted(t *testing.T) {
	var res Result
	CheckOrder([]string{"adams", "Brown", "cohen"}, &res)
	if len(res.Findings) != 1 || res.Findings[0] != "הרשומות מסודרות בסדר אלפביתי - תקין" {
		t.Fatalf("expected sorted finding, got %+v", res)
	}
}

func TestCheckOrderTwoInversionsNamesOrdinals(t *testing.T) {
	var res Result
	CheckOrder([]string{"B", "A", "D", "C"}, &res)
	if len(res.Warnings) != 1 || len(res.Errors) != 0 {
		t.Fatalf("expected a single warning, got %+v", res)
	}
	if !strings.HasSuffix(res.Warnings[0].Message, "מספרי רשומות 2, 4") {
		t.Fatalf("warning must name ordinals 2 and 4, got %q", res.Warnings[0].Message)
	}
}

func TestCheckOrderManyInversionsEscalates(t *testing.T) {
	var res Result
	CheckOrder([]string{"B", "A", "D", "C", "F", "E", "H", "G", "J", "I"}, &res)
	if len(res.Errors) != 1 || len(res.Warnings) != 0 {
		t.Fatalf("expected a single error, got %+v", res)
	}
	if strings.Contains(res.Errors[0].Message, "מספרי רשומות") {
		t.Fatalf("escalated error must not enumerate ordinals")
	}
}

func TestCheckCorpusCountsAndMix(t *testing.T) {
	var res Result
	CheckCorpus([]string{"כהן (2024).", "לוי (2023).", "מור (2022)."}, fixedNow(), &res)
	if !hasIssue(res.Warnings, "מספר המקורות נמוך (3)") {
		t.Fatalf("expected low count warning, got %+v", res.Warnings)
	}
	if !hasIssue(res.Warnings, "כל המקורות בעברית") {
		t.Fatalf("expected Hebrew-only warning, got %+v", res.Warnings)
	}
	found := false
	for _, f := range res.Findings {
		if f == "נמצאו 3 מקורות עדכניים (5 שנים אחרונות)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recency finding, got %v", res.Findings)
	}

	res = Result{}
	refs := make([]string, 0, 12)
	for i := 0; i < 6; i++ {
		refs = append(refs, fmt.Sprintf("Author%c, A. (%d). T.", 'a'+i, 2000+i))
		refs = append(refs, fmt.Sprintf("כהן%d (%d).", i, 2001+i))
	}
	CheckCorpus(refs, fixedNow(), &res)
	if res.Findings[0] != "מספר מקורות תקין: 12" {
		t.Fatalf("expected adequate count finding, got %v", res.Findings)
	}
	if res.Findings[1] != "נמצאו מקורות בעברית (6) ובאנגלית (6) - מגוון תקין" {
		t.Fatalf("expected mix finding, got %v", res.Findings)
	}
	if !hasIssue(res.Warnings, "חלק ניכר מהמקורות ישנים") {
		t.Fatalf("expected old sources warning, got %+v", res.Warnings)
	}
	if !hasIssue(res.Warnings, "מומלץ לכלול יותר מקורות עדכניים") {
		t.Fatalf("expected recency warning, got %+v", res.Warnings)
	}
}

func TestCheckCorpusRecencyWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	var res Result
	CheckCorpus([]string{"Adams, J. (2021). A.", "Brown, K. (2021). B.", "Cohen, L. (2030). C."}, now, &res)
	if !hasIssue(res.Warnings, "מומלץ לכלול יותר מקורות עדכניים") {
		t.Fatalf("years at the window edge or in the future must not count as recent, got %+v", res)
	}

	res = Result{}
	CheckCorpus([]string{"Adams, J. (2022). A.", "Brown, K. (2026). B.", "Cohen, L. (2024). C."}, now, &res)
	found := false
	for _, f := range res.Findings {
		if f == "נמצאו 3 מקורות עדכניים (5 שנים אחרונות)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("years inside (current-5, current] must count as recent, got %v", res.Findings)
	}
}

func TestCheckMissingSection(t *testing.T) {
	res := Check("מבוא\nטקסט ללא רשימה", Options{Now: fixedNow})
	if res.Found || len(res.Errors) != 1 || res.ReferenceCount != 0 {
		t.Fatalf("expected single missing-section error, got %+v", res)
	}
	if len(res.Warnings) != 0 || len(res.Findings) != 0 {
		t.Fatalf("downstream checks must be skipped, got %+v", res)
	}
}

func TestCheckFullSection(t *testing.T) {
	text := "מבוא\nטקסט\nביבליוגרפיה\n" +
		"Adams, J. (2024). First title. Publisher.\n\n" +
		"Brown, K. (2023). Second title. Publisher.\n\n" +
		"Cohen, L. 2022. Third title. Publisher.\n\n" +
		"a\n"
	res := Check(text, Options{Now: fixedNow})
	if !res.Found || res.ReferenceCount != 4 {
		t.Fatalf("expected 4 references, got %+v", res)
	}
	if !hasIssue(res.Errors, "רשומה 3: השנה צריכה להופיע בסוגריים עגולים") {
		t.Fatalf("expected per-entry error for entry 3, got %+v", res.Errors)
	}
	for _, is := range append(res.Errors, res.Warnings...) {
		if is.Ref == 4 {
			t.Fatalf("short entry must be skipped, got %+v", is)
		}
	}
	if !hasIssue(res.Warnings, "מספרי רשומות 4") {
		t.Fatalf("expected ordering warning naming entry 4, got %+v", res.Warnings)
	}
}
