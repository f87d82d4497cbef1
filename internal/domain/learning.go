package domain

import (
	"math"
	"strings"
	"time"
)

// ChapterSet records per-chapter completion. Its length is the chapter count.
type ChapterSet []bool

func NewChapterSet(n int) ChapterSet {
	return make(ChapterSet, n)
}

func (c ChapterSet) Len() int { return len(c) }

func (c ChapterSet) IsChapterComplete(i int) bool {
	return i >= 0 && i < len(c) && c[i]
}

// Count returns the number of completed chapters.
func (c ChapterSet) Count() int {
	n := 0
	for _, done := range c {
		if done {
			n++
		}
	}
	return n
}

// FirstIncomplete returns the lowest incomplete index, or Len() when all are complete.
func (c ChapterSet) FirstIncomplete() int {
	for i, done := range c {
		if !done {
			return i
		}
	}
	return len(c)
}

// Flags renders the set as 0/1 flags, the shape dashboards expect.
func (c ChapterSet) Flags() []int {
	out := make([]int, len(c))
	for i, done := range c {
		if done {
			out[i] = 1
		}
	}
	return out
}

type Learning struct {
	ID                  string
	Title               string
	NoOfChapters        int
	ChapterNames        []string
	Progress            ChapterSet
	CurrentChapterIndex int
	CompletedChapters   int
	Status              LearningStatus
	Notes               string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLearning returns a not-started course with every chapter incomplete.
func NewLearning(id, title string, chapterNames []string, notes string, now time.Time) (*Learning, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, Invalid("title", "is required")
	}
	if len(chapterNames) == 0 {
		return nil, Invalid("chapters", "at least one chapter is required")
	}
	for i, name := range chapterNames {
		if strings.TrimSpace(name) == "" {
			return nil, Invalid("chapters", "chapter %d has no name", i+1)
		}
	}
	names := make([]string, len(chapterNames))
	copy(names, chapterNames)
	return &Learning{
		ID:           id,
		Title:        title,
		NoOfChapters: len(names),
		ChapterNames: names,
		Progress:     NewChapterSet(len(names)),
		Status:       LearningNotStarted,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Validate checks the structural invariants of a loaded or constructed course.
func (l *Learning) Validate() error {
	if l.NoOfChapters < 1 {
		return Invalid("NoOfChapters", "must be positive, got %d", l.NoOfChapters)
	}
	if len(l.ChapterNames) != l.NoOfChapters {
		return Invalid("ChaptersName", "has %d names for %d chapters", len(l.ChapterNames), l.NoOfChapters)
	}
	if l.Progress.Len() != l.NoOfChapters {
		return Invalid("progress", "has %d flags for %d chapters", l.Progress.Len(), l.NoOfChapters)
	}
	return nil
}

// CompleteChapter marks chapter i complete. Returns true when the completed
// count changed; completing an already complete chapter is a no-op.
func (l *Learning) CompleteChapter(i int, now time.Time) (bool, error) {
	if err := l.checkIndex(i); err != nil {
		return false, err
	}
	changed := false
	if !l.Progress[i] {
		l.Progress[i] = true
		l.CompletedChapters++
		changed = true
	}
	l.CurrentChapterIndex = l.Progress.FirstIncomplete()
	if l.CompletedChapters == l.NoOfChapters {
		l.Status = LearningCompleted
	} else {
		l.Status = LearningInProgress
	}
	l.UpdatedAt = now
	return changed, nil
}

// UncompleteChapter clears chapter i. Returns true when the completed count changed.
func (l *Learning) UncompleteChapter(i int, now time.Time) (bool, error) {
	if err := l.checkIndex(i); err != nil {
		return false, err
	}
	changed := false
	if l.Progress[i] {
		l.Progress[i] = false
		l.CompletedChapters--
		changed = true
	}
	l.CurrentChapterIndex = l.Progress.FirstIncomplete()
	if l.CompletedChapters == 0 {
		l.Status = LearningNotStarted
	} else {
		l.Status = LearningInProgress
	}
	l.UpdatedAt = now
	return changed, nil
}

// AdvanceNext completes the chapter at CurrentChapterIndex. A finished course is left as is.
func (l *Learning) AdvanceNext(now time.Time) (bool, error) {
	if l.CurrentChapterIndex >= l.NoOfChapters {
		return false, nil
	}
	return l.CompleteChapter(l.CurrentChapterIndex, now)
}

// ProgressPercent is the rounded share of completed chapters.
func (l *Learning) ProgressPercent() int {
	if l.NoOfChapters == 0 {
		return 0
	}
	return int(math.Round(100 * float64(l.CompletedChapters) / float64(l.NoOfChapters)))
}

// CurrentChapterName returns the name of the next chapter to study, or "" when done.
func (l *Learning) CurrentChapterName() string {
	if l.CurrentChapterIndex < 0 || l.CurrentChapterIndex >= len(l.ChapterNames) {
		return ""
	}
	return l.ChapterNames[l.CurrentChapterIndex]
}

func (l *Learning) checkIndex(i int) error {
	if i < 0 || i >= l.NoOfChapters || i >= l.Progress.Len() {
		return Invalid("chapterIndex", "%d is outside [0, %d)", i, l.NoOfChapters)
	}
	return nil
}
