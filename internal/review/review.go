// Package review asks a chat model for constructive feedback on each chapter
// of a proposal, with a deeper pass over the methods chapter.
package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/proposalcheck/internal/cache"
	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/llm"
	"github.com/hyperifyio/proposalcheck/internal/match"
	"github.com/hyperifyio/proposalcheck/internal/template"
)

// Messages reported when the review cannot run at all.
const (
	MissingKeyMessage  = "לסקירת תוכן מעמיקה, הגדר מפתח Gemini API דרך התפריט: בודק עבודות > הגדרות API"
	NoChaptersMessage  = "לא ניתן לזהות פרקים במסמך. ודא שהכותרות מסומנות כ-Heading"
	shortChapterText   = "הפרק קצר מאוד או ריק. יש להרחיב."
	chapterFailedText  = "לא ניתן לסקור פרק זה - שגיאת API"
	shortMethodText    = "הפרק קצר מדי לביצוע סקירה מעמיקה"
	methodFailedText   = "לא ניתן לסקור - שגיאת API"
	windowSeparator    = "\n\n[...]\n\n"
	minChapterChars    = 30
	chapterWindowLimit = 6000
	chapterWindowHalf  = 3000
	minMethodChars     = 50
	methodWindowLimit  = 8000
	methodWindowHalf   = 4000
)

// Sampling parameters for every review call.
const (
	Temperature = 0.7
	MaxTokens   = 2048
	TopP        = 0.9
)

var (
	methodologyTitles = match.Family{
		match.Re(`מתודולוגי`),
		match.Re(`השיטה`),
		match.Re(`שיטת\s*המחקר`),
		match.Re(`מערך\s*המחקר`),
		match.Re(`(?i)method`),
	}
	bibliographyTitles = match.Family{
		match.Re(`ביבליוגרפי`),
		match.Re(`רשימת\s*מקורות`),
		match.Re(`(?i)references`),
		match.Re(`(?i)bibliography`),
	}
)

// IsMethodology reports whether a chapter title names the methods chapter.
func IsMethodology(title string) bool { return methodologyTitles.Any(title) }

// IsBibliography reports whether a chapter title names the reference list.
func IsBibliography(title string) bool { return bibliographyTitles.Any(title) }

// Options configure a Reviewer. The credential is taken here once; nothing
// is read from the environment later.
type Options struct {
	// Client overrides the model client. When nil and APIKey is set, an
	// OpenAI-compatible client for BaseURL is built.
	Client  llm.Client
	APIKey  string
	BaseURL string
	Model   string
	// Cache, when non-nil, stores decoded answers keyed by model and prompt.
	Cache *cache.ReviewCache
	// ChapterInstructions and MethodologyInstructions replace the default
	// prompt instructions when non-blank.
	ChapterInstructions     string
	MethodologyInstructions string
}

// Reviewer runs content reviews. The zero value is not usable; use New.
type Reviewer struct {
	client      llm.Client
	apiKey      string
	model       string
	cache       *cache.ReviewCache
	chapter     template.Profile
	methodology template.Profile
}

// New builds a Reviewer from opts.
func New(opts Options) *Reviewer {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = llm.DefaultModel
	}
	key := strings.TrimSpace(opts.APIKey)
	client := opts.Client
	if client == nil && key != "" {
		client = llm.NewProvider(key, opts.BaseURL)
	}
	return &Reviewer{
		client:      client,
		apiKey:      key,
		model:       model,
		cache:       opts.Cache,
		chapter:     template.GetProfile(string(template.Chapter)).WithInstructions(opts.ChapterInstructions),
		methodology: template.GetProfile(string(template.Methodology)).WithInstructions(opts.MethodologyInstructions),
	}
}

// Enabled reports whether the reviewer has a credential and may call the model.
func (r *Reviewer) Enabled() bool {
	return r != nil && r.apiKey != "" && r.client != nil
}

// Review reviews every chapter of doc in order. Bibliography chapters are
// skipped; a methods chapter gets the deep review before its first-pass
// review. Calls are sequential and never retried. Failures become result
// values, never errors.
func (r *Reviewer) Review(ctx context.Context, doc document.Document) Result {
	if !r.Enabled() {
		return Result{Available: false, Chapters: []ChapterReview{}, Message: MissingKeyMessage}
	}
	chapters := doc.Chapters()
	if len(chapters) == 0 {
		return Result{Available: false, Chapters: []ChapterReview{}, Message: NoChaptersMessage}
	}
	res := Result{Available: true, Chapters: []ChapterReview{}}
	for _, ch := range chapters {
		if IsBibliography(ch.Title) {
			continue
		}
		isMethod := IsMethodology(ch.Title)
		if isMethod {
			m := r.reviewMethodology(ctx, ch)
			res.Methodology = &m
		}
		res.Chapters = append(res.Chapters, r.reviewChapter(ctx, ch, isMethod))
	}
	return res
}

func (r *Reviewer) reviewChapter(ctx context.Context, ch document.Chapter, isMethod bool) ChapterReview {
	if document.Len(strings.TrimSpace(ch.Content)) < minChapterChars {
		return ChapterReview{
			Title:    ch.Title,
			Comments: []Comment{{Type: CommentWarning, Text: shortChapterText}},
		}
	}
	content := document.HeadTail(ch.Content, chapterWindowLimit, chapterWindowHalf, windowSeparator)
	text, err := r.call(ctx, r.chapter.BuildChapter(ch.Title, content, isMethod))
	if err != nil {
		log.Warn().Err(err).Str("chapter", ch.Title).Msg("chapter review failed")
		return ChapterReview{
			Title:    ch.Title,
			Comments: []Comment{{Type: CommentError, Text: chapterFailedText}},
		}
	}
	ans := decode[ChapterReview](text)
	if !ans.OK {
		log.Debug().Str("chapter", ch.Title).Msg("chapter review answer was not JSON; keeping raw text")
		return ChapterReview{
			Title:    ch.Title,
			Comments: []Comment{{Type: CommentInfo, Text: ans.Raw}},
		}
	}
	out := ans.Parsed
	out.Title = ch.Title
	out.normalize()
	return out
}

func (r *Reviewer) reviewMethodology(ctx context.Context, ch document.Chapter) MethodologyReview {
	if document.Len(strings.TrimSpace(ch.Content)) < minMethodChars {
		m := MethodologyReview{Title: ch.Title, OverallAssessment: shortMethodText}
		m.normalize()
		return m
	}
	content := document.HeadTail(ch.Content, methodWindowLimit, methodWindowHalf, windowSeparator)
	text, err := r.call(ctx, r.methodology.BuildMethodology(content))
	if err != nil {
		log.Warn().Err(err).Str("chapter", ch.Title).Msg("methodology review failed")
		m := MethodologyReview{Title: ch.Title, OverallAssessment: methodFailedText}
		m.normalize()
		return m
	}
	ans := decode[MethodologyReview](text)
	var out MethodologyReview
	if ans.OK {
		out = ans.Parsed
	} else {
		log.Debug().Str("chapter", ch.Title).Msg("methodology answer was not JSON; keeping raw text")
		out.OverallAssessment = ans.Raw
	}
	out.Title = ch.Title
	out.normalize()
	return out
}

var errEmptyAnswer = errors.New("model returned no content")

// call sends one prompt and returns the answer text. Answers that decode as
// JSON are cached when a cache is configured.
func (r *Reviewer) call(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(r.model, prompt)
	if ans, ok := r.cache.Lookup(key); ok {
		log.Debug().Str("key", key[:12]).Msg("review cache hit")
		return ans.Text, nil
	}
	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		TopP:        TopP,
		N:           1,
	}
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errEmptyAnswer
	}
	text := resp.Choices[0].Message.Content
	if r.cache != nil && decode[map[string]any](text).OK {
		ans := cache.Answer{Model: r.model, Text: stripFences(text), SavedAt: time.Now().UTC()}
		if err := r.cache.Store(key, ans); err != nil {
			log.Debug().Err(err).Msg("review cache save failed")
		}
	}
	return text, nil
}
