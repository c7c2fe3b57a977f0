package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/extract"
	"github.com/hyperifyio/proposalcheck/internal/report"
)

type stubClient struct{ calls int }

func (s *stubClient) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{
		Content: "```json\n{\"comments\":[],\"writingQuality\":\"good\",\"academicLevel\":\"appropriate\"}\n```",
	}}}}, nil
}

var paragraph = strings.Repeat("פסקה אקדמית עם תוכן מספק לבדיקה. ", 3)

func proposalMarkdown() string {
	return "שם הסטודנט: יונתן כהן\n\n" +
		"מנחה: ד\"ר רות לוי\n\n" +
		"אוניברסיטת חיפה\n\n" +
		"מרץ 2026\n\n" +
		"# מבוא\n\n" + paragraph + "\n\n" +
		"# סקירת ספרות\n\n" + paragraph + "\n\n" +
		"# שיטת המחקר\n\n" + paragraph + "\n\n" +
		"# ביבליוגרפיה\n\n" +
		"Adams, J. (2024). First title. Publisher.\n\n" +
		"Brown, K. (2023). Second title. Publisher.\n\n" +
		"כהן, ל. (2022). כותרת שלישית. הוצאה.\n"
}

func fixedClock() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestRunWritesReportAndManifest(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proposal.md")
	if err := os.WriteFile(in, []byte(proposalMarkdown()), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "out", "report.json")
	cfg := Config{InputPath: in, OutputPath: out, LLMAPIKey: "k", LLMModel: "stub-model"}

	client := &stubClient{}
	a, err := New(context.Background(), cfg, WithClient(client), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if client.calls == 0 {
		t.Fatalf("expected content review calls")
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	for _, k := range []string{"coverPage", "chapters", "apa", "contentReview", "summary"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("report misses %q: %s", k, raw)
		}
	}

	mraw, err := os.ReadFile(report.SidecarPath(out))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	meta, err := report.UnmarshalManifest(mraw)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if meta.Model != "stub-model" || !meta.ReviewEnabled || meta.Source != in {
		t.Fatalf("unexpected manifest %+v", meta)
	}
}

func TestRunShortDocumentSentinel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(in, []byte("קצר"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "report.md")
	a, err := New(context.Background(), Config{InputPath: in, OutputPath: out})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrDocumentTooShort) {
		t.Fatalf("err=%v, want ErrDocumentTooShort", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("report must still be written: %v", err)
	}
}

func TestRunNotApprovedSentinel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "p.txt")
	text := "הצעת מחקר ללא פרקים\n" + paragraph + "\n" + paragraph
	if err := os.WriteFile(in, []byte(text), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	a, err := New(context.Background(), Config{InputPath: in, OutputPath: filepath.Join(dir, "r.md")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("err=%v, want ErrNotApproved", err)
	}
}

func TestRunMissingInput(t *testing.T) {
	a, err := New(context.Background(), Config{InputPath: filepath.Join(t.TempDir(), "nope.docx"), OutputPath: "-"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = a.Run(context.Background())
	if err == nil || errors.Is(err, ErrNotApproved) || errors.Is(err, ErrDocumentTooShort) {
		t.Fatalf("expected a read failure, got %v", err)
	}
}

func TestNewPreparesCache(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "old.json")
	if err := os.WriteFile(stale, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if _, err := New(context.Background(), Config{CacheDir: dir, CacheMaxAge: 24 * time.Hour}); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expired entry must be purged, stat err=%v", err)
	}
	if _, err := New(context.Background(), Config{CacheMaxCount: 1}); err == nil {
		t.Fatalf("cache limits without a dir must be rejected")
	}
}

func TestCheckWithoutKeyDisablesReview(t *testing.T) {
	a, err := New(context.Background(), Config{}, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, meta := a.Check(context.Background(), docFromMarkdown(t), "inline")
	if meta.ReviewEnabled || meta.Model != "" {
		t.Fatalf("review must be disabled without a key: %+v", meta)
	}
	if res.ContentReview == nil || res.ContentReview.Available {
		t.Fatalf("expected unavailable content review, got %+v", res.ContentReview)
	}
	if !meta.GeneratedAt.Equal(fixedClock()) {
		t.Fatalf("GeneratedAt=%v", meta.GeneratedAt)
	}
}

func docFromMarkdown(t *testing.T) document.Document {
	t.Helper()
	doc, err := extract.Markdown{}.Extract([]byte(proposalMarkdown()))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return doc
}
