package article

import (
	"strings"
	"testing"

	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func TestNormalizeURL(t *testing.T) {
	tester.Eq(t, NormalizeURL("https://www.Example.com/Post/"), "example.com/post")
	tester.Eq(t, NormalizeURL("http://example.com/post"), "example.com/post")
	tester.Eq(t, NormalizeURL("example.com/post/"), "example.com/post")
}

func TestNormalizeTitle(t *testing.T) {
	tester.Eq(t, NormalizeTitle("[Research] GPT-5: What's Next?"), "gpt5whatsnext")
	tester.Eq(t, NormalizeTitle("[A][B] Hello, World!"), "helloworld")
	tester.Eq(t, NormalizeTitle("plain title"), "plaintitle")
}

func TestCorpusAddDedupes(t *testing.T) {
	c := NewCorpus()
	tester.True(t, c.Add(Article{Link: "https://a.com/x", Title: "one"}))
	tester.False(t, c.Add(Article{Link: "http://www.a.com/x/", Title: "dup"}))
	tester.Eq(t, c.Len(), 1)

	id, ok := c.ByLink("A.COM/x")
	tester.True(t, ok)
	tester.Eq(t, id, 0)
}

func TestPromptXMLOmitsEmptyTags(t *testing.T) {
	a := Article{Link: "https://a.com/x", Title: "T < U"}
	xml := a.PromptXML(3)
	tester.True(t, strings.Contains(xml, "<ID>3</ID>"))
	tester.True(t, strings.Contains(xml, "<title>T &lt; U</title>"))
	tester.False(t, strings.Contains(xml, "<summary>"))
	tester.False(t, strings.Contains(xml, "<author>"))
}

func TestShortSummaryTruncates(t *testing.T) {
	a := Article{Summary: strings.Repeat("x", 2000)}
	got := a.ShortSummary()
	tester.Eq(t, len([]rune(got)), 1503) // 1500 + "..."
}

func TestFuzzyMatch(t *testing.T) {
	c := NewCorpus(
		Article{Link: "https://a.com/alpha", Title: "Alpha release ships today"},
		Article{Link: "https://b.com/beta", Title: "Beta framework deep dive"},
	)

	// exact link
	tester.Eq(t, c.FuzzyMatch("whatever", "http://www.a.com/alpha/"), 0)
	// substring link
	tester.Eq(t, c.FuzzyMatch("", "https://b.com/beta?utm=1"), 1)
	tester.Eq(t, c.FuzzyMatch("Beta framework deep dive", "https://b.com/bet"), 1)
	// title overlap only
	tester.Eq(t, c.FuzzyMatch("alpha release ships", ""), 0)
	// no match
	tester.Eq(t, c.FuzzyMatch("entirely unrelated words here", "https://zzz.example/nothing"), -1)
}
