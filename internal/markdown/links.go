package markdown

import (
	"strings"

	nethtml "golang.org/x/net/html"
)

type LinkKind string

const (
	LinkKindAnchor LinkKind = "anchor"
	LinkKindImage  LinkKind = "image"
)

type Link struct {
	Kind        LinkKind
	Destination string
	Text        string
}

// ExtractLinks renders src and returns the link targets of the resulting HTML
// in document order. Autolinked bare URLs are included.
func ExtractLinks(src string) ([]Link, error) {
	rendered, err := Render(src)
	if err != nil {
		return nil, err
	}
	if rendered == "" {
		return nil, nil
	}
	doc, err := nethtml.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode {
			switch n.Data {
			case "a":
				if href := attr(n, "href"); href != "" {
					links = append(links, Link{Kind: LinkKindAnchor, Destination: href, Text: text(n)})
				}
			case "img":
				if src := attr(n, "src"); src != "" {
					links = append(links, Link{Kind: LinkKindImage, Destination: src, Text: attr(n, "alt")})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func text(n *nethtml.Node) string {
	var sb strings.Builder
	var collect func(*nethtml.Node)
	collect = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}
