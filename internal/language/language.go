// Package language holds the registry of languages the editor supports.
//
// The set of languages is closed: every Tag has exactly one Config, built once
// at process start and never mutated afterwards.
package language

import (
	"fmt"
	"strings"
)

// Tag identifies a supported language.
type Tag int

// Supported languages, in display order.
const (
	Python Tag = iota
	JavaScript
	Go
	PHP
	Rust
	CPP
	Swift

	numTags
)

// Default is the language a fresh editor session starts with.
const Default = Python

var tagNames = [numTags]string{
	Python:     "python",
	JavaScript: "javascript",
	Go:         "go",
	PHP:        "php",
	Rust:       "rust",
	CPP:        "cpp",
	Swift:      "swift",
}

// String returns the wire name of the tag, as used in execution endpoint paths.
func (t Tag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// Valid reports whether t is one of the enumerated tags.
func (t Tag) Valid() bool {
	return t >= 0 && t < numTags
}

// Tags returns every tag in display order.
func Tags() []Tag {
	tags := make([]Tag, 0, numTags)
	for t := Tag(0); t < numTags; t++ {
		tags = append(tags, t)
	}
	return tags
}

// Names returns the wire names of every tag in display order.
func Names() []string {
	names := make([]string, 0, numTags)
	for _, t := range Tags() {
		names = append(names, t.String())
	}
	return names
}

// ParseTag resolves a wire name (case-insensitive) to its Tag.
func ParseTag(name string) (Tag, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for t, n := range tagNames {
		if n == needle {
			return Tag(t), nil
		}
	}
	return 0, &UnknownLanguageError{Name: name, Available: Names()}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid language tag %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnknownLanguageError is returned when a name matches no supported language.
type UnknownLanguageError struct {
	Name      string
	Available []string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
