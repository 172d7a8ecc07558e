package view

import "strings"

// Tag names one of the fixed filter options offered once a response is shown.
type Tag string

const (
	TagAlphabets        Tag = "Alphabets"
	TagNumbers          Tag = "Numbers"
	TagHighestLowercase Tag = "Highest lowercase alphabet"
)

// Response fields touched by the filter.
const (
	FieldNumbers          = "numbers"
	FieldAlphabets        = "alphabets"
	FieldHighestLowercase = "highest_lowercase_alphabet"
	FieldOperationCode    = "operation_code"
)

var vocabulary = []Tag{TagAlphabets, TagNumbers, TagHighestLowercase}

// Tags returns the filter vocabulary in display order.
func Tags() []Tag {
	out := make([]Tag, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Valid reports whether t belongs to the vocabulary.
func (t Tag) Valid() bool {
	for _, known := range vocabulary {
		if t == known {
			return true
		}
	}
	return false
}

// Selection is an ordered, duplicate free set of tags.
type Selection []Tag

// NewSelection keeps the known values, drops duplicates and unknown entries,
// and orders the result by vocabulary position so equal sets compare equal.
func NewSelection(values ...string) Selection {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[Tag]struct{}, len(values))
	for _, value := range values {
		tag := Tag(strings.TrimSpace(value))
		if !tag.Valid() {
			continue
		}
		seen[tag] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make(Selection, 0, len(seen))
	for _, tag := range vocabulary {
		if _, ok := seen[tag]; ok {
			out = append(out, tag)
		}
	}
	return out
}

// Has reports whether tag is part of the selection.
func (s Selection) Has(tag Tag) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Strings converts the selection for form controls and prompts.
func (s Selection) Strings() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	for i, tag := range s {
		out[i] = string(tag)
	}
	return out
}
