// Package filter wraps the profanity detector used to gate all
// user-supplied text before it is written anywhere.
package filter

import (
	"errors"

	goaway "github.com/TwiN/go-away"
)

var ErrProfanity = errors.New("text contains inappropriate language")

type Filter struct {
	detector *goaway.ProfanityDetector
}

func New() *Filter {
	return &Filter{detector: goaway.NewProfanityDetector()}
}

// IsProfane reports whether s contains flagged language.
func (f *Filter) IsProfane(s string) bool {
	return f.detector.IsProfane(s)
}

// Check returns ErrProfanity if any of the given fields is flagged.
func (f *Filter) Check(fields ...string) error {
	for _, s := range fields {
		if s == "" {
			continue
		}
		if f.detector.IsProfane(s) {
			return ErrProfanity
		}
	}
	return nil
}
