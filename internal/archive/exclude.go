package archive

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher reports whether a path inside a packed directory is excluded.
//
// Patterns follow find -path semantics (fnmatch(3) without FNM_PATHNAME) and are
// matched against the slash separated path relative to the packed directory:
//   - * matches any characters including /
//   - ? matches exactly one character including /
//   - [...] matches one character from the set, [!...] negates it
//   - \ escapes the next character
//
// An excluded directory is skipped together with everything below it.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles patterns into a single matcher. No patterns match nothing.
func NewMatcher(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return &Matcher{}, nil
	}

	alternatives := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		expr, err := globToRegexp(strings.TrimPrefix(pattern, "./"))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		alternatives = append(alternatives, "(?:"+expr+")")
	}

	re, err := regexp.Compile("^(?:" + strings.Join(alternatives, "|") + ")$")
	if err != nil {
		return nil, fmt.Errorf("compiling patterns: %w", err)
	}

	return &Matcher{re: re}, nil
}

// Match reports whether the relative slash separated path is excluded.
func (m *Matcher) Match(path string) bool {
	if m == nil || m.re == nil {
		return false
	}

	return m.re.MatchString(path)
}

// globToRegexp converts a find -path glob into an unanchored regexp.
func globToRegexp(pattern string) (string, error) {
	var buf strings.Builder

	for pos := 0; pos < len(pattern); {
		switch char := pattern[pos]; char {
		case '*':
			buf.WriteString(".*")

			pos++
		case '?':
			buf.WriteString(".")

			pos++
		case '[':
			end, err := closingBracket(pattern, pos)
			if err != nil {
				return "", err
			}

			class := pattern[pos : end+1]
			if len(class) > 2 && class[1] == '!' {
				class = "[^" + class[2:]
			}

			buf.WriteString(class)

			pos = end + 1
		case '\\':
			if pos+1 >= len(pattern) {
				return "", fmt.Errorf("trailing backslash in %q", pattern)
			}

			buf.WriteString(regexp.QuoteMeta(pattern[pos+1 : pos+2]))

			pos += 2
		default:
			buf.WriteString(regexp.QuoteMeta(pattern[pos : pos+1]))

			pos++
		}
	}

	return buf.String(), nil
}

// closingBracket returns the index of the ] closing the class opened at pos.
// A ] directly after [ or [! is a literal member of the class.
func closingBracket(pattern string, pos int) (int, error) {
	idx := pos + 1

	if idx < len(pattern) && pattern[idx] == '!' {
		idx++
	}

	if idx < len(pattern) && pattern[idx] == ']' {
		idx++
	}

	if end := strings.IndexByte(pattern[idx:], ']'); end >= 0 {
		return idx + end, nil
	}

	return 0, fmt.Errorf("unclosed character class in %q", pattern)
}
