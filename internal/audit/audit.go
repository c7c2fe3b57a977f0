// Package audit runs every proposal check over one document and assembles
// the combined result.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/proposalcheck/internal/bibliography"
	"github.com/hyperifyio/proposalcheck/internal/coverpage"
	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/review"
	"github.com/hyperifyio/proposalcheck/internal/structure"
	"github.com/hyperifyio/proposalcheck/internal/summary"
)

// MinDocumentChars is the smallest trimmed document accepted for checking.
const MinDocumentChars = 50

// ShortDocumentMessage is reported instead of a result for near-empty input.
const ShortDocumentMessage = "המסמך ריק או קצר מדי לבדיקה. ודא שהעבודה מועתקת למסמך."

// Result is the combined outcome of a check. Either Error is set with a
// Message, or every section is present.
type Result struct {
	Error         bool                 `json:"error,omitempty"`
	Message       string               `json:"message,omitempty"`
	CoverPage     *coverpage.Result    `json:"coverPage,omitempty"`
	Chapters      *structure.Result    `json:"chapters,omitempty"`
	APA           *bibliography.Result `json:"apa,omitempty"`
	ContentReview *review.Result       `json:"contentReview,omitempty"`
	Summary       *summary.Final       `json:"summary,omitempty"`
}

// Approved reports whether the check completed and the summary approves.
func (r Result) Approved() bool {
	return !r.Error && r.Summary != nil && r.Summary.Approved
}

// Options configure a run.
type Options struct {
	// Reviewer runs the content review. Nil, or a reviewer without a
	// credential, yields an unavailable review and no model calls.
	Reviewer *review.Reviewer
	// Now is the clock used for bibliography recency; nil means time.Now.
	Now func() time.Time
}

// Run checks doc. Documents whose trimmed text is shorter than
// MinDocumentChars get an error result and no analysis. Each analyzer runs
// independently; only the content review may call out.
func Run(ctx context.Context, doc document.Document, opts Options) Result {
	if document.Len(strings.TrimSpace(doc.FullText)) < MinDocumentChars {
		return Result{Error: true, Message: ShortDocumentMessage}
	}

	cover := coverpage.Analyze(doc)
	chapters := structure.Analyze(doc)
	apa := bibliography.Check(doc.FullText, bibliography.Options{Now: opts.Now})

	var content review.Result
	if opts.Reviewer.Enabled() {
		content = opts.Reviewer.Review(ctx, doc)
	} else {
		content = review.Result{Available: false, Chapters: []review.ChapterReview{}, Message: review.MissingKeyMessage}
	}

	final := summary.Generate(cover, chapters, apa)
	log.Debug().
		Bool("coverValid", cover.Valid).
		Bool("structureValid", chapters.Valid).
		Int("references", apa.ReferenceCount).
		Int("apaErrors", len(apa.Errors)).
		Bool("reviewAvailable", content.Available).
		Bool("approved", final.Approved).
		Msg("check complete")

	return Result{
		CoverPage:     &cover,
		Chapters:      &chapters,
		APA:           &apa,
		ContentReview: &content,
		Summary:       &final,
	}
}
