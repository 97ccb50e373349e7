package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

type sectionKind int

const (
	sectionSummary sectionKind = iota
	sectionKeyPoints
	sectionDetails
	sectionRecommendations
)

// Parser extracts the four analysis sections from free-form model output.
// Parse is pure and total: it never fails, missing sections come back empty.
type Parser struct {
	patterns []sectionPattern
}

type sectionPattern struct {
	kind sectionKind
	re   *regexp.Regexp
}

func New() (*Parser, error) {
	headings, err := loadDefaultHeadings()
	if err != nil {
		return nil, err
	}
	return NewWithHeadings(headings), nil
}

func NewWithHeadings(headings HeadingSet) *Parser {
	return &Parser{patterns: []sectionPattern{
		{sectionSummary, headingRegexp(headings.Summary)},
		{sectionKeyPoints, headingRegexp(headings.KeyPoints)},
		{sectionDetails, headingRegexp(headings.Details)},
		{sectionRecommendations, headingRegexp(headings.Recommendations)},
	}}
}

// headingRegexp matches a line starting with any synonym followed by a colon
// and captures the remainder of the line.
func headingRegexp(synonyms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	if len(quoted) == 0 {
		// A synonym-less section can never match.
		return regexp.MustCompile(`\A\z.`)
	}
	return regexp.MustCompile(fmt.Sprintf(`(?i)^[ \t]*(?:%s)[ \t]*:[ \t]*(.*)$`, strings.Join(quoted, "|")))
}

var listMarkerRe = regexp.MustCompile(`(?m)^[ \t]*(?:[-•*]|[0-9]+\.)[ \t]*`)

func (p *Parser) Parse(text string) domain.Sections {
	lines := strings.Split(text, "\n")

	bodies := map[sectionKind]string{}
	found := map[sectionKind]bool{}
	for i := 0; i < len(lines); i++ {
		kind, rest, ok := p.matchHeading(lines[i])
		if !ok || found[kind] {
			continue
		}
		found[kind] = true

		parts := make([]string, 0, 4)
		if strings.TrimSpace(rest) != "" {
			parts = append(parts, strings.TrimSpace(rest))
		}
		// Greedy boundary: body runs to the next recognized heading, a blank
		// line, or end of text. Heading words inside a body are not escaped.
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				break
			}
			if _, _, isHeading := p.matchHeading(lines[j]); isHeading {
				break
			}
			parts = append(parts, lines[j])
		}
		bodies[kind] = strings.TrimSpace(strings.Join(parts, "\n"))
	}

	summary := bodies[sectionSummary]
	if !found[sectionSummary] {
		// The only cross-section fallback: no Summary heading means the
		// first paragraph stands in for it.
		summary = firstParagraph(text)
	}

	return domain.Sections{
		Summary:         summary,
		KeyPoints:       splitListItems(bodies[sectionKeyPoints]),
		Details:         bodies[sectionDetails],
		Recommendations: splitListItems(bodies[sectionRecommendations]),
	}
}

func (p *Parser) matchHeading(line string) (sectionKind, string, bool) {
	for _, pattern := range p.patterns {
		if m := pattern.re.FindStringSubmatch(line); m != nil {
			return pattern.kind, m[1], true
		}
	}
	return 0, "", false
}

func firstParagraph(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func splitListItems(body string) []string {
	items := []string{}
	for _, fragment := range listMarkerRe.Split(body, -1) {
		fragment = strings.TrimSpace(fragment)
		if fragment != "" {
			items = append(items, fragment)
		}
	}
	return items
}
