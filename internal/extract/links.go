package extract

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// PDFLinks returns the absolute URLs of anchors on an HTML page that point
// at PDF documents, in document order without duplicates. Relative hrefs are
// resolved against base.
func PDFLinks(input []byte, base *url.URL) []string {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil || root == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "a") {
			if link := resolvePDF(attr(n, "href"), base); link != "" {
				if _, ok := seen[link]; !ok {
					seen[link] = struct{}{}
					out = append(out, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(root)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func resolvePDF(href string, base *url.URL) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if !strings.EqualFold(path.Ext(u.Path), ".pdf") {
		return ""
	}
	u.Fragment = ""
	return u.String()
}
