package parser

import "regexp"

// multiLineStream is the scanner's cursor over the source text. Offsets are
// byte offsets into the original string; the cursor only moves backwards by
// the small, bounded amounts the scanner needs to re-inspect a committed
// boundary.
type multiLineStream struct {
	source   string
	len      int
	position int
}

func newMultiLineStream(source string, position int) *multiLineStream {
	return &multiLineStream{
		source:   source,
		len:      len(source),
		position: position,
	}
}

func (s *multiLineStream) eos() bool {
	return s.position >= s.len
}

func (s *multiLineStream) pos() int {
	return s.position
}

func (s *multiLineStream) goBack(n int) {
	s.position -= n
}

func (s *multiLineStream) advance(n int) {
	s.position += n
}

func (s *multiLineStream) goToEnd() {
	s.position = s.len
}

// peekChar returns the byte at the given delta from the cursor, or 0 when the
// index is out of range.
func (s *multiLineStream) peekChar(n int) byte {
	index := s.position + n
	if index < 0 || index >= s.len {
		return 0
	}
	return s.source[index]
}

func (s *multiLineStream) advanceIfChar(ch byte) bool {
	if s.position < s.len && s.source[s.position] == ch {
		s.position++
		return true
	}
	return false
}

func (s *multiLineStream) advanceIfChars(ch string) bool {
	if s.position+len(ch) > s.len {
		return false
	}
	if s.source[s.position:s.position+len(ch)] != ch {
		return false
	}
	s.advance(len(ch))
	return true
}

// advanceIfRegexp moves the cursor past the first match of re in the
// remaining input and returns the matched text, or "" when there is no match.
// Anchored patterns only ever match at the cursor itself.
func (s *multiLineStream) advanceIfRegexp(re *regexp.Regexp) string {
	rest := s.source[s.position:]
	loc := re.FindStringIndex(rest)
	if loc == nil {
		return ""
	}
	s.position += loc[1]
	return rest[loc[0]:loc[1]]
}

// advanceUntilRegexp moves the cursor to the start of the first match of re,
// or to the end of the input when there is none.
func (s *multiLineStream) advanceUntilRegexp(re *regexp.Regexp) string {
	rest := s.source[s.position:]
	loc := re.FindStringIndex(rest)
	if loc == nil {
		s.goToEnd()
		return ""
	}
	s.position += loc[0]
	return rest[loc[0]:loc[1]]
}

// advanceUntilChar stops at the next occurrence of ch and reports whether one
// was found; the cursor is left on the character itself.
func (s *multiLineStream) advanceUntilChar(ch byte) bool {
	for s.position < s.len {
		if s.source[s.position] == ch {
			return true
		}
		s.advance(1)
	}
	return false
}

func (s *multiLineStream) advanceUntilChars(ch string) bool {
	for s.position+len(ch) <= s.len {
		if s.source[s.position:s.position+len(ch)] == ch {
			return true
		}
		s.advance(1)
	}
	s.goToEnd()
	return false
}

// advanceUntilCharsCI is advanceUntilChars with ASCII case folding, used to
// find the closing tag of a raw-text element.
func (s *multiLineStream) advanceUntilCharsCI(ch string) bool {
	for s.position+len(ch) <= s.len {
		i := 0
		for i < len(ch) && lowerASCII(s.source[s.position+i]) == lowerASCII(ch[i]) {
			i++
		}
		if i == len(ch) {
			return true
		}
		s.advance(1)
	}
	s.goToEnd()
	return false
}

func (s *multiLineStream) skipWhitespace() bool {
	n := s.advanceWhileChar(func(ch byte) bool {
		switch ch {
		case ' ', '\t', '\n', '\f', '\r':
			return true
		}
		return false
	})
	return n > 0
}

func (s *multiLineStream) advanceWhileChar(condition func(byte) bool) int {
	start := s.position
	for s.position < s.len && condition(s.source[s.position]) {
		s.advance(1)
	}
	return s.position - start
}

func lowerASCII(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
