package htmlls

import (
	"math"
	"regexp"
	"sort"

	"go.lsp.dev/protocol"

	"github.com/ren-wei/html-languageservice/parser"
	"github.com/ren-wei/html-languageservice/textdocument"
)

var regionRE = regexp.MustCompile(`^\s*#(region\b)|(endregion\b)`)

// FoldingRangeContext carries caller constraints for folding computation.
type FoldingRangeContext struct {
	// RangeLimit caps the number of ranges returned; 0 means no limit.
	RangeLimit int
}

// GetFoldingRanges computes folding ranges for element pairs, comments and
// `#region` comment markers. The document is re-scanned, not re-parsed: a
// tag stack over the token stream is enough.
func (s *LanguageService) GetFoldingRanges(document *textdocument.TextDocument, context FoldingRangeContext) []protocol.FoldingRange {
	scanner := s.CreateScanner(document.Text(), 0)

	type stackEntry struct {
		startLine uint32
		tagName   string
	}

	var ranges []protocol.FoldingRange
	var stack []stackEntry
	lastTagName := ""
	prevStart := uint32(math.MaxUint32)

	for token := scanner.Scan(); token != parser.EOS; token = scanner.Scan() {
		switch token {
		case parser.StartTag:
			tagName := scanner.TokenText()
			startLine := document.PositionAt(scanner.TokenOffset()).Line
			stack = append(stack, stackEntry{startLine: startLine, tagName: tagName})
			lastTagName = tagName

		case parser.EndTag:
			lastTagName = scanner.TokenText()

		case parser.StartTagClose, parser.EndTagClose, parser.StartTagSelfClose:
			if len(stack) == 0 ||
				(token == parser.StartTagClose && !s.rules.IsVoidElement(lastTagName)) {
				break
			}
			i := len(stack) - 1
			for i >= 0 && stack[i].tagName != lastTagName {
				i--
			}
			if i < 0 {
				break
			}
			startLine := stack[i].startLine
			stack = stack[:i]
			endLine := document.PositionAt(scanner.TokenEnd()).Line
			if endLine > startLine+1 && prevStart != startLine {
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: startLine,
					EndLine:   endLine - 1,
				})
				prevStart = startLine
			}

		case parser.Comment:
			startLine := document.PositionAt(scanner.TokenOffset()).Line
			text := scanner.TokenText()
			if match := regionRE.FindStringSubmatch(text); match != nil {
				if match[1] != "" {
					// #region
					stack = append(stack, stackEntry{startLine: startLine, tagName: ""})
				} else if len(stack) > 0 {
					i := len(stack) - 1
					for i >= 0 && stack[i].tagName != "" {
						i--
					}
					if i >= 0 {
						endLine := startLine
						startLine = stack[i].startLine
						stack = stack[:i]
						if endLine > startLine && prevStart != startLine {
							ranges = append(ranges, protocol.FoldingRange{
								StartLine: startLine,
								EndLine:   endLine,
								Kind:      protocol.RegionFoldingRange,
							})
							prevStart = startLine
						}
					}
				}
			} else {
				// the comment token ends before "-->"
				endLine := document.PositionAt(scanner.TokenEnd() + 3).Line
				if startLine < endLine {
					ranges = append(ranges, protocol.FoldingRange{
						StartLine: startLine,
						EndLine:   endLine,
						Kind:      protocol.CommentFoldingRange,
					})
					prevStart = startLine
				}
			}
		}
	}

	if context.RangeLimit > 0 && len(ranges) > context.RangeLimit {
		return limitFoldingRanges(ranges, context.RangeLimit)
	}
	return ranges
}

// limitFoldingRanges reduces ranges to the limit by dropping the most deeply
// nested ones first.
func limitFoldingRanges(ranges []protocol.FoldingRange, rangeLimit int) []protocol.FoldingRange {
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})

	// compute each range's nesting level and the number of ranges per level
	top := -1
	var previous []int
	nestingLevels := make([]int, len(ranges))
	var nestingLevelCounts []int

	countLevel := func(index, level int) {
		nestingLevels[index] = level
		if level < 30 {
			for len(nestingLevelCounts) < level+1 {
				nestingLevelCounts = append(nestingLevelCounts, 0)
			}
			nestingLevelCounts[level]++
		}
	}

	for i := range ranges {
		entry := ranges[i]
		if top < 0 {
			top = i
			countLevel(i, 0)
		} else if entry.StartLine > ranges[top].StartLine {
			if entry.EndLine <= ranges[top].EndLine {
				previous = append(previous, top)
				top = i
				countLevel(i, len(previous))
			} else if entry.StartLine > ranges[top].EndLine {
				top = popInt(&previous)
				for top >= 0 && entry.StartLine > ranges[top].EndLine {
					top = popInt(&previous)
				}
				if top >= 0 {
					previous = append(previous, top)
				}
				top = i
				countLevel(i, len(previous))
			}
		}
	}

	entries := 0
	maxLevel := 0
	for level, n := range nestingLevelCounts {
		if n > 0 {
			if n+entries > rangeLimit {
				maxLevel = level
				break
			}
			entries += n
		}
	}

	var result []protocol.FoldingRange
	for i, r := range ranges {
		level := nestingLevels[i]
		if level <= maxLevel {
			if level == maxLevel {
				if entries < rangeLimit {
					result = append(result, r)
				}
				entries++
			} else {
				result = append(result, r)
			}
		}
	}
	return result
}

func popInt(s *[]int) int {
	if len(*s) == 0 {
		return -1
	}
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return v
}
