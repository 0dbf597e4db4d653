package jump

import (
	"fmt"
	"regexp"
)

// Patterns holds the compiled match and filter expressions used by Tokenize.
type Patterns struct {
	Match  []*regexp.Regexp
	Filter []*regexp.Regexp
}

// CompilePatterns compiles both pattern lists in order. An invalid pattern is
// reported with its list and index; it is never skipped.
func CompilePatterns(match, filter []string) (Patterns, error) {
	var p Patterns
	for i, expr := range match {
		re, err := regexp.Compile(expr)
		if err != nil {
			return Patterns{}, fmt.Errorf("match pattern %d %q: %w", i, expr, err)
		}
		p.Match = append(p.Match, re)
	}
	for i, expr := range filter {
		re, err := regexp.Compile(expr)
		if err != nil {
			return Patterns{}, fmt.Errorf("filter pattern %d %q: %w", i, expr, err)
		}
		p.Filter = append(p.Filter, re)
	}
	return p, nil
}

// Tokenize returns the words of lines, where lines[0] is line number first.
// Words are ordered by line, then match pattern, then offset within the line.
// Matches of different patterns may overlap and are all kept.
func Tokenize(first int, lines []string, p Patterns) []Word {
	var words []Word
	for i, line := range lines {
		if line == "" {
			continue
		}
		for _, re := range p.Match {
			for _, loc := range re.FindAllStringIndex(line, -1) {
				if loc[1] <= loc[0] {
					continue
				}
				words = append(words, Word{
					Text: line[loc[0]:loc[1]],
					Pos:  Position{Line: first + i, Col: loc[0] + 1},
				})
			}
		}
	}
	return applyFilters(words, p.Filter)
}

func applyFilters(words []Word, filters []*regexp.Regexp) []Word {
	if len(filters) == 0 {
		return words
	}
	kept := words[:0]
	for _, w := range words {
		if matchesAll(w.Text, filters) {
			kept = append(kept, w)
		}
	}
	return kept
}

func matchesAll(text string, filters []*regexp.Regexp) bool {
	for _, re := range filters {
		if !re.MatchString(text) {
			return false
		}
	}
	return true
}

// WordsOnLine returns the words on line, keeping their order. The result
// shares no storage with words.
func WordsOnLine(words []Word, line int) []Word {
	var out []Word
	for _, w := range words {
		if w.Pos.Line == line {
			out = append(out, w)
		}
	}
	return out
}

// DistinctLines returns the line numbers that hold at least one word, ascending.
func DistinctLines(words []Word) []int {
	seen := make(map[int]struct{}, len(words))
	var lines []int
	for _, w := range words {
		if _, ok := seen[w.Pos.Line]; ok {
			continue
		}
		seen[w.Pos.Line] = struct{}{}
		lines = append(lines, w.Pos.Line)
	}
	// Words arrive grouped by line in ascending order, so insertion order is sorted.
	return lines
}
