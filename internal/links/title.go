package links

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const titleSeparator = " by "

var (
	// "(via SudokuPad)", "(SudokuPad)", "(1/2)" ...
	trailingQualifier = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	vendorSuffix      = regexp.MustCompile(`(?i)\s*[-|]\s*sudokupad\s*$`)
)

// ParseTitle splits a puzzle page title of the form "<name> by <author>".
// The split happens on the first separator. Titles without one yield two
// empty strings.
func ParseTitle(title string) (name, author string) {
	before, after, ok := strings.Cut(title, titleSeparator)
	if !ok {
		return "", ""
	}

	name = strings.TrimSpace(before)
	author = strings.TrimSpace(after)
	author = vendorSuffix.ReplaceAllString(author, "")
	for trailingQualifier.MatchString(author) {
		author = trailingQualifier.ReplaceAllString(author, "")
	}
	author = strings.TrimSpace(author)

	if name == "" || author == "" {
		return "", ""
	}
	return name, author
}

// PageTitle returns the document title of an HTML page, falling back to the
// og:title meta tag. Unparseable markup yields "".
func PageTitle(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var title, ogTitle string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(textOf(n))
				}
			case "meta":
				if ogTitle == "" && attr(n, "property") == "og:title" {
					ogTitle = strings.TrimSpace(attr(n, "content"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "" {
		return title
	}
	return ogTitle
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
