// Package moderation masks censored words in posted subjects and bodies
// before they reach the message store or any broadcast.
package moderation

import (
	"bufio"
	"embed"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

//go:embed words.txt
var wordsFile embed.FS

// Moderator holds the Aho-Corasick automaton built from the censored word
// list. Matching is case-insensitive; matched spans are replaced in the
// original text with the replacement character.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the automaton from lowercased patterns. Blank
// entries are skipped; an empty list yields a pass-through moderator.
func NewModerator(censoredWords []string, replacement rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		word = strings.TrimSpace(strings.ToLower(word))
		if word == "" {
			continue
		}
		patterns = append(patterns, []rune(word))
	}
	if len(patterns) == 0 {
		return &Moderator{replacement: replacement}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement}, nil
}

// NewEmbeddedModerator loads the word list shipped with the binary.
// Lines starting with '#' are comments.
func NewEmbeddedModerator(replacement rune) (*Moderator, error) {
	f, err := wordsFile.Open("words.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewModerator(words, replacement)
}

// Censor replaces every occurrence of a censored word with the
// replacement character, preserving the length and the untouched
// remainder of the text.
func (m *Moderator) Censor(text string) string {
	if m.matcher == nil {
		return text
	}

	runes := []rune(text)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}

	spans := m.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return text
	}
	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(runes) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}
