package reseller

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html"
)

// xmlElementText returns the text of the first element with the given
// local name. The reseller responses are flat, so a token scan is
// enough; Strict is off because the API occasionally omits the XML
// declaration.
func xmlElementText(data []byte, name string) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != name {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &se); err != nil {
			return "", false
		}
		return text, true
	}
}

// scrape404 pulls the headline and server line out of the nginx error
// page that fronts unknown sandboxes. The page is not valid XML, hence
// the tolerant HTML parser.
func scrape404(data []byte) (h1, center string) {
	h1, center = "404 Not Found", "nginx"
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return h1, center
	}
	if t := firstElementText(doc, "h1"); t != "" {
		h1 = t
	}
	if t := firstElementText(doc, "center"); t != "" {
		center = t
	}
	return h1, center
}

func firstElementText(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return strings.TrimSpace(nodeText(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstElementText(c, tag); t != "" {
			return t
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
