package tui

import (
	"fmt"
	"strings"

	"roadmap_backend/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	switch m.screen {
	case screenLoading:
		return m.viewLoading()
	case screenError:
		return m.viewError()
	case screenRoadmap:
		return m.viewRoadmap()
	case screenStudy:
		return m.viewStudy()
	default:
		return m.viewLanding()
	}
}

func (m Model) greeting() string {
	if m.name != "" {
		return fmt.Sprintf("Welcome, %s!", m.name)
	}
	return "Welcome!"
}

func (m Model) viewLanding() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.greeting()) + "\n\n")
	b.WriteString(heroStyle.Render("AI-Generated Learning Roadmaps") + "\n")
	b.WriteString(mutedStyle.Render("Type a topic, get a structured learning path, curated resources & next steps.") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	chips := make([]string, 0, len(exampleTopics))
	for i, t := range exampleTopics {
		style := chipStyle
		if i == m.example {
			style = selectedStyle
		}
		chips = append(chips, style.Render(t.Label))
	}
	b.WriteString(mutedStyle.Render("Try: ") + strings.Join(chips, " ") + "\n\n")
	b.WriteString(m.help(m.keys.Submit, m.keys.Example, key.NewBinding(key.WithHelp("esc", "quit"))))
	return b.String()
}

func (m Model) viewLoading() string {
	return fmt.Sprintf("%s Generating roadmap for %s...\n\n%s",
		m.spinner.View(),
		accentStyle.Render(m.topic),
		m.help(m.keys.Back),
	)
}

func (m Model) viewError() string {
	msg := "Something went wrong."
	if m.err != nil {
		msg = m.err.Error()
	}
	return errorStyle.Render("Oops! "+msg) + "\n\n" +
		m.help(key.NewBinding(key.WithHelp("enter", "back to home")), m.keys.Quit)
}

func (m Model) viewRoadmap() string {
	doc := m.session.Document()

	var b strings.Builder
	b.WriteString(titleStyle.Render(doc.Title) + "\n")
	if doc.Overview != "" {
		b.WriteString(m.markdown(doc.Overview))
	}
	b.WriteString("\n")

	for i, st := range doc.Stages {
		line := fmt.Sprintf("%s %d. %s", successStyle.Render(markDone), i+1, st.Title)
		if st.Duration != "" {
			line += mutedStyle.Render("  ⏱ " + st.Duration)
		}
		b.WriteString(line + "\n")
		if i < len(doc.Stages)-1 {
			b.WriteString(accentStyle.Render("  │") + "\n")
		}
	}
	if len(doc.Stages) == 0 {
		b.WriteString(mutedStyle.Render("No stages.") + "\n")
	}

	b.WriteString("\n" + heroStyle.Render("Start Learning 🚀") + "\n\n")
	b.WriteString(m.help(m.keys.Start, m.keys.Back, m.keys.Quit))
	return b.String()
}

func (m Model) viewStudy() string {
	s := m.session
	doc := s.Document()

	var side strings.Builder
	side.WriteString(titleStyle.Render(doc.Title) + "\n\n")
	for i, st := range doc.Stages {
		label := fmt.Sprintf("%d. %s", i+1, st.Title)
		if i == s.Stage {
			side.WriteString(selectedStyle.Render(label) + "\n")
		} else {
			side.WriteString(label + "\n")
		}
	}

	body := m.viewLesson(s.CurrentStage(), s.CurrentLesson())

	var b strings.Builder
	if s.Celebrating {
		b.WriteString(successStyle.Render("🎉 Stage complete! 🎉") + "\n\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(side.String()), "  ", body))
	b.WriteString("\n\n")

	prev := "← Previous"
	if !s.CanPrev() {
		prev = mutedStyle.Render(prev)
	}
	next := "Next Lesson →"
	if s.AtLastLesson() {
		next = successStyle.Render(markDone + " Complete Stage")
	}
	b.WriteString(prev + "    " + next + "\n\n")
	b.WriteString(m.help(m.keys.Prev, m.keys.Next, m.keys.PrevStage, m.keys.NextStage, m.keys.Back, m.keys.Quit))
	return b.String()
}

func (m Model) viewLesson(st *model.Stage, lesson *model.LessonItem) string {
	if st == nil {
		return mutedStyle.Render("This roadmap has no stages.")
	}

	var b strings.Builder
	if st.Duration != "" {
		b.WriteString(mutedStyle.Render(st.Title+" · "+st.Duration) + "\n")
	}
	if lesson == nil {
		b.WriteString(mutedStyle.Render("This stage has no lessons."))
		return panelStyle.Render(b.String())
	}
	b.WriteString(progressBar(m.session.Lesson+1, len(st.Items), 20) + "\n\n")

	b.WriteString(titleStyle.Render("📖 "+lesson.Name) + "\n")
	if lesson.Description != "" {
		b.WriteString(m.markdown(lesson.Description))
	}
	if len(lesson.Resources) > 0 {
		b.WriteString("\n" + accentStyle.Render("Resources:") + "\n")
		for _, r := range lesson.Resources {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", markPending, r.Label, mutedStyle.Render(r.URL)))
		}
	}
	return panelStyle.Render(b.String())
}

func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text + "\n"
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

func (m Model) help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
