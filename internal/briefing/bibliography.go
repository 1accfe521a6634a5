package briefing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/store"
)

// ReferencesHeading separates the briefing body from its reference list.
const ReferencesHeading = "## References"

// Reference is one numbered bibliography entry.
type Reference struct {
	Num         int
	Title       string
	URL         string
	Publication string
}

// Format renders the entry in the briefing's reference style.
func (r Reference) Format() string {
	return fmt.Sprintf("%d. [%s](%s) — *%s*", r.Num, r.Title, r.URL, r.Publication)
}

// BuildReferences numbers every distinct link cited in the body, in order
// of first appearance. Titles come from the matching pick when one
// exists, otherwise from the link text in the document.
func BuildReferences(body string, picks []store.Pick) []Reference {
	corpus := article.NewCorpus()
	for _, p := range picks {
		corpus.Add(p.Article)
	}

	var refs []Reference
	seen := make(map[string]struct{})
	for _, l := range bodyLinks(body) {
		if _, dup := seen[l.dest]; dup {
			continue
		}
		seen[l.dest] = struct{}{}

		title := l.text
		if id, ok := corpus.ByLink(l.dest); ok {
			if a, ok := corpus.At(id); ok {
				title = cleanRefTitle(a.Title)
			}
		}
		if strings.TrimSpace(title) == "" {
			title = l.dest
		}
		refs = append(refs, Reference{
			Num:         len(refs) + 1,
			Title:       title,
			URL:         l.dest,
			Publication: PublicationFor(l.dest),
		})
	}
	return refs
}

// FormatReferences renders the terminal reference section.
func FormatReferences(refs []Reference) string {
	var sb strings.Builder
	sb.WriteString(ReferencesHeading + "\n\n")
	for _, r := range refs {
		sb.WriteString(r.Format() + "\n")
	}
	return sb.String()
}

// cleanRefTitle drops aggregator noise like "[Inoreader]" or "Show HN:".
func cleanRefTitle(title string) string {
	t := strings.TrimSpace(title)
	for strings.HasPrefix(t, "[") {
		end := strings.Index(t, "]")
		if end < 0 {
			break
		}
		t = strings.TrimSpace(t[end+1:])
	}
	for _, prefix := range []string{"Show HN:", "Launch HN:", "Ask HN:"} {
		t = strings.TrimSpace(strings.TrimPrefix(t, prefix))
	}
	return t
}

// knownPublications maps hosts whose display name isn't just a
// capitalized domain label.
var knownPublications = map[string]string{
	"github.com":         "GitHub",
	"arxiv.org":          "ArXiv",
	"news.ycombinator.com": "Hacker News",
	"theguardian.com":    "The Guardian",
	"nytimes.com":        "The New York Times",
	"ft.com":             "Financial Times",
	"reuters.com":        "Reuters",
	"techcrunch.com":     "TechCrunch",
	"theverge.com":       "The Verge",
	"arstechnica.com":    "Ars Technica",
	"openai.com":         "OpenAI",
	"anthropic.com":      "Anthropic",
	"deepmind.google":    "Google DeepMind",
}

// PublicationFor derives a display publication name from the URL host.
func PublicationFor(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "Unknown"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if name, ok := knownPublications[host]; ok {
		return name
	}
	label := strings.SplitN(host, ".", 2)[0]
	if label == "" {
		return "Unknown"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

type bodyLink struct {
	text string
	dest string
}

// bodyLinks walks the markdown AST and returns inline links in document
// order.
func bodyLinks(body string) []bodyLink {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(body))

	var out []bodyLink
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		link, ok := node.(*ast.Link)
		if !ok {
			return ast.GoToNext
		}
		out = append(out, bodyLink{
			text: strings.TrimSpace(string(childText(link))),
			dest: strings.TrimSpace(string(link.Destination)),
		})
		return ast.GoToNext
	})
	return out
}

func childText(node ast.Node) []byte {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := n.AsLeaf(); leaf != nil {
			sb.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return []byte(sb.String())
}
