package study

import (
	"time"

	"roadmap_backend/internal/model"
)

// CelebrationDelay is how long the stage-complete celebration stays visible.
const CelebrationDelay = 3 * time.Second

// Session is the study-mode cursor over one roadmap document.
// Not safe for concurrent use; the TUI owns it from its update loop.
type Session struct {
	doc *model.RoadmapDocument

	StudyMode bool
	Stage     int
	Lesson    int

	Celebrating  bool
	celebrateSeq uint64
}

func NewSession(doc *model.RoadmapDocument) *Session {
	if doc == nil {
		doc = &model.RoadmapDocument{}
	}
	return &Session{doc: doc}
}

func (s *Session) Document() *model.RoadmapDocument { return s.doc }

// Start enters study mode at the current stage.
func (s *Session) Start() {
	s.StudyMode = true
}

// Exit returns to the roadmap overview, keeping the position.
func (s *Session) Exit() {
	s.StudyMode = false
}

// SelectStage jumps to stage i and rewinds to its first lesson.
// Out-of-range indices are ignored.
func (s *Session) SelectStage(i int) {
	if i < 0 || i >= len(s.doc.Stages) {
		return
	}
	s.Stage = i
	s.Lesson = 0
}

func (s *Session) CurrentStage() *model.Stage {
	if s.Stage < 0 || s.Stage >= len(s.doc.Stages) {
		return nil
	}
	return &s.doc.Stages[s.Stage]
}

func (s *Session) CurrentLesson() *model.LessonItem {
	st := s.CurrentStage()
	if st == nil || s.Lesson < 0 || s.Lesson >= len(st.Items) {
		return nil
	}
	return &st.Items[s.Lesson]
}

func (s *Session) CanPrev() bool { return s.Lesson > 0 }

// AtLastLesson reports whether the forward action completes the stage.
// A stage without items is treated as already at its last lesson.
func (s *Session) AtLastLesson() bool {
	st := s.CurrentStage()
	if st == nil {
		return true
	}
	return s.Lesson >= len(st.Items)-1
}

func (s *Session) PrevLesson() {
	if s.CanPrev() {
		s.Lesson--
	}
}

// NextLesson moves forward one lesson; it does nothing at the last one.
func (s *Session) NextLesson() {
	if !s.AtLastLesson() {
		s.Lesson++
	}
}

// CompleteStage starts a celebration and advances to the next stage when
// there is one. The returned sequence number identifies this celebration
// for ClearCelebration.
func (s *Session) CompleteStage() uint64 {
	s.celebrateSeq++
	s.Celebrating = true

	if s.Stage < len(s.doc.Stages)-1 {
		s.Stage++
		s.Lesson = 0
	}
	return s.celebrateSeq
}

// ClearCelebration ends the celebration started with seq. A newer
// celebration is left running.
func (s *Session) ClearCelebration(seq uint64) {
	if seq == s.celebrateSeq {
		s.Celebrating = false
	}
}
