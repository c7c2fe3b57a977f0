package review

// Comment is one remark produced by a review. Category and Priority are only
// filled by the methodology review.
type Comment struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Comment types used by reviews that never reached the model or whose
// answer could not be decoded.
const (
	CommentWarning = "warning"
	CommentError   = "error"
	CommentInfo    = "info"
)

// ChapterReview is the first-pass review of a single chapter.
type ChapterReview struct {
	Title          string    `json:"title"`
	Comments       []Comment `json:"comments"`
	WritingQuality string    `json:"writingQuality"`
	AcademicLevel  string    `json:"academicLevel"`
}

// MethodologyReview is the deep review of the methods chapter.
type MethodologyReview struct {
	Title             string    `json:"title"`
	OverallAssessment string    `json:"overallAssessment"`
	Comments          []Comment `json:"comments"`
	Clarity           string    `json:"clarity"`
	Completeness      string    `json:"completeness"`
	NeedsExpansion    []string  `json:"needsExpansion"`
	CanBeRemoved      []string  `json:"canBeRemoved"`
}

// Result is the content review of a whole document. When Available is false
// Message explains why and no chapter was reviewed.
type Result struct {
	Available   bool               `json:"available"`
	Chapters    []ChapterReview    `json:"chapters"`
	Methodology *MethodologyReview `json:"methodology"`
	Message     string             `json:"message,omitempty"`
}

func (c *ChapterReview) normalize() {
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
}

func (m *MethodologyReview) normalize() {
	if m.Comments == nil {
		m.Comments = []Comment{}
	}
	if m.NeedsExpansion == nil {
		m.NeedsExpansion = []string{}
	}
	if m.CanBeRemoved == nil {
		m.CanBeRemoved = []string{}
	}
}
