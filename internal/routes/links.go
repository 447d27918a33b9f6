package routes

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Link is an anchor found in rendered HTML.
type Link struct {
	Href string
	Text string
}

// ExtractLinks returns the href and text of every <a> element in document
// order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				links = append(links, Link{Href: href, Text: strings.Join(strings.Fields(textOf(n)), " ")})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// CheckRendered extracts the anchors of one rendered page and reports the
// internal ones that do not resolve.
func (m *Manifest) CheckRendered(route string, r io.Reader) ([]BrokenLink, error) {
	links, err := ExtractLinks(r)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", route, err)
	}
	var broken []BrokenLink
	for _, l := range links {
		if internal, ok := m.Resolve(l.Href); internal && !ok {
			broken = append(broken, BrokenLink{From: route, Href: l.Href, Label: l.Text})
		}
	}
	return broken, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
