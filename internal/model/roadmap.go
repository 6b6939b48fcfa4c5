package model

import (
	"fmt"
	"strings"
)

// swagger:model RoadmapDocument
type RoadmapDocument struct {
	Title    string  `json:"title" yaml:"title"`
	Overview string  `json:"overview,omitempty" yaml:"overview,omitempty"`
	Stages   []Stage `json:"stages" yaml:"stages"`
}

// swagger:model Stage
type Stage struct {
	Title    string       `json:"title" yaml:"title"`
	Duration string       `json:"duration,omitempty" yaml:"duration,omitempty"` // 展示用，例如 "4-6 weeks"
	Items    []LessonItem `json:"items" yaml:"items"`
}

// swagger:model LessonItem
type LessonItem struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Resources   []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// swagger:model Resource
type Resource struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"` // 不做校验
}

// Validate reports every structural problem of the document.
// An empty result means the document is well formed.
func (d *RoadmapDocument) Validate() []string {
	var problems []string
	if strings.TrimSpace(d.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if len(d.Stages) == 0 {
		problems = append(problems, "stages is empty")
	}
	for i, s := range d.Stages {
		if strings.TrimSpace(s.Title) == "" {
			problems = append(problems, fmt.Sprintf("stages[%d].title is empty", i))
		}
		if len(s.Items) == 0 {
			problems = append(problems, fmt.Sprintf("stages[%d].items is empty", i))
		}
		for j, it := range s.Items {
			if strings.TrimSpace(it.Name) == "" {
				problems = append(problems, fmt.Sprintf("stages[%d].items[%d].name is empty", i, j))
			}
		}
	}
	return problems
}

// LessonCount returns the number of lessons across all stages.
func (d *RoadmapDocument) LessonCount() int {
	n := 0
	for _, s := range d.Stages {
		n += len(s.Items)
	}
	return n
}
