package briefing

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// LintError aggregates every document violation found in one pass.
type LintError struct {
	Issues []string
}

func (e *LintError) Error() string {
	return fmt.Sprintf("briefing lint: %d issue(s): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

var refLineRe = regexp.MustCompile(`^(\d+)\.\s+\[([^\]]*)\]\(([^)]*)\)`)

// Lint validates a rendered briefing before it may be persisted or
// published:
//   - exactly one top-level H1;
//   - a terminal reference section whose numbers increase strictly from 1;
//   - non-empty reference titles and parseable absolute URLs;
//   - no URL referenced twice;
//   - every link cited in the body appears in the reference list, and the
//     list carries exactly the distinct cited links.
func Lint(doc string) error {
	var issues []string

	body, refSection, found := splitReferences(doc)
	if !found {
		issues = append(issues, "missing "+ReferencesHeading+" section")
		refSection = ""
	}

	if n := countH1(body); n != 1 {
		issues = append(issues, fmt.Sprintf("expected exactly one H1, found %d", n))
	}

	refs, refIssues := parseReferences(refSection)
	issues = append(issues, refIssues...)

	refURLs := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		refURLs[r.URL] = struct{}{}
	}

	cited := make(map[string]struct{})
	for _, l := range bodyLinks(body) {
		cited[l.dest] = struct{}{}
		if _, ok := refURLs[l.dest]; !ok {
			issues = append(issues, fmt.Sprintf("body link %s missing from references", l.dest))
		}
	}
	if found && len(cited) != len(refs) {
		issues = append(issues, fmt.Sprintf("reference count %d does not match %d distinct cited links", len(refs), len(cited)))
	}

	if len(issues) > 0 {
		return &LintError{Issues: issues}
	}
	return nil
}

// splitReferences cuts the document at the last reference heading.
func splitReferences(doc string) (body, refs string, found bool) {
	idx := strings.LastIndex(doc, ReferencesHeading)
	if idx < 0 {
		return doc, "", false
	}
	return doc[:idx], doc[idx+len(ReferencesHeading):], true
}

func countH1(body string) int {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(body))
	n := 0
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if h, ok := node.(*ast.Heading); ok && entering && h.Level == 1 {
			n++
		}
		return ast.GoToNext
	})
	return n
}

// parseReferences reads numbered entries line by line. Markdown
// renderers renumber ordered lists, so the literal numbers have to be
// checked on the raw text.
func parseReferences(section string) ([]Reference, []string) {
	var (
		refs   []Reference
		issues []string
	)
	seenURL := make(map[string]int)
	want := 1
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		m := refLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		title := strings.TrimSpace(m[2])
		link := strings.TrimSpace(m[3])

		if num != want {
			issues = append(issues, fmt.Sprintf("reference %d out of sequence (expected %d)", num, want))
		}
		want = num + 1

		if title == "" {
			issues = append(issues, fmt.Sprintf("reference %d has an empty title", num))
		}
		if !validAbsoluteURL(link) {
			issues = append(issues, fmt.Sprintf("reference %d has invalid URL %q", num, link))
		}
		if prev, dup := seenURL[link]; dup {
			issues = append(issues, fmt.Sprintf("reference %d repeats URL of reference %d", num, prev))
		}
		seenURL[link] = num

		refs = append(refs, Reference{Num: num, Title: title, URL: link})
	}
	return refs, issues
}

func validAbsoluteURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
