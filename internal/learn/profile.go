package learn

import (
	"fmt"
	"strings"
	"time"
)

// User is the owner of answers, chat messages and a profile. Identity and
// authentication are handled outside this module.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}

// LearningStyle is one of the supported learning preferences.
type LearningStyle string

const (
	StyleVisual         LearningStyle = "visual"
	StyleAuditory       LearningStyle = "auditory"
	StyleReadingWriting LearningStyle = "reading_writing"
	StyleKinesthetic    LearningStyle = "kinesthetic"
	StyleSimulation     LearningStyle = "simulation"
	StyleRealWorld      LearningStyle = "real_world"
)

// LearningStyles lists every style in display order.
var LearningStyles = []LearningStyle{
	StyleVisual,
	StyleAuditory,
	StyleReadingWriting,
	StyleKinesthetic,
	StyleSimulation,
	StyleRealWorld,
}

var styleLabels = map[LearningStyle]string{
	StyleVisual:         "Visual",
	StyleAuditory:       "Auditory",
	StyleReadingWriting: "Reading/Writing",
	StyleKinesthetic:    "Kinesthetic/Doing",
	StyleSimulation:     "Simulation",
	StyleRealWorld:      "Real-world Practice",
}

// Label returns the human-readable name of the style.
func (s LearningStyle) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return string(s)
}

// Profile holds per-user personalization attributes. Every field may be
// blank.
type Profile struct {
	UserID             int64
	Age                *int
	City               string
	Country            string
	CulturalBackground string
	Hobbies            string // comma-separated
	LearningStyles     string // comma-separated LearningStyle values
}

// HobbyList splits the comma-separated hobbies, dropping blanks.
func (p Profile) HobbyList() []string {
	return splitCSV(p.Hobbies)
}

// Styles returns the profile's learning styles, skipping unknown values.
func (p Profile) Styles() []LearningStyle {
	var out []LearningStyle
	for _, s := range splitCSV(p.LearningStyles) {
		if _, ok := styleLabels[LearningStyle(s)]; ok {
			out = append(out, LearningStyle(s))
		}
	}
	return out
}

// ParseLearningStyles validates a comma-separated style list and returns
// it normalized (trimmed, lower-case, de-duplicated, input order kept).
func ParseLearningStyles(csv string) (string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, s := range splitCSV(csv) {
		s = strings.ToLower(s)
		if _, ok := styleLabels[LearningStyle(s)]; !ok {
			return "", fmt.Errorf("unknown learning style %q", s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return strings.Join(out, ","), nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
