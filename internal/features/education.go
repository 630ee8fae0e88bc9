package features

import (
	"strings"
	"unicode"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// Degree level constants
const (
	DegreeBachelor = "bachelor"
	DegreeMaster   = "master"
)

// degreeMarkers lists the whole words, dots removed, that identify a degree level.
var degreeMarkers = map[string]map[string]bool{
	DegreeBachelor: {"bachelor": true, "bachelors": true, "bsc": true},
	DegreeMaster:   {"master": true, "masters": true, "msc": true},
}

// DegreeLevel classifies degree text as bachelor, master or "" when unknown.
// Bachelor markers win when both match.
func DegreeLevel(degree string) string {
	words := degreeWords(degree)
	for _, level := range []string{DegreeBachelor, DegreeMaster} {
		for _, w := range words {
			if degreeMarkers[level][w] {
				return level
			}
		}
	}
	return ""
}

// degreeWords splits text into lowercase words, keeping "M.Sc." together as "msc".
func degreeWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := strings.ReplaceAll(f, ".", ""); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// SelectEducation picks at most one bachelor and one master entry.
// Later entries replace earlier ones of the same level.
func SelectEducation(education []types.Education) (bachelor, master *types.Education) {
	for i := range education {
		edu := education[i]
		switch DegreeLevel(edu.Degree) {
		case DegreeBachelor:
			bachelor = &edu
		case DegreeMaster:
			master = &edu
		}
	}
	return bachelor, master
}
