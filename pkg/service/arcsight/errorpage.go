package arcsight

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyErrorPage = "Empty response and no information received"

// ParseErrorPage builds a human readable message from an ArcSight (Tomcat) error page.
// It never fails: unparseable or empty bodies still produce a message carrying the status code.
func ParseErrorPage(status int, body []byte) string {
	prefix := fmt.Sprintf("API failed. Status Code: %d.", status)

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return prefix + " Error Details: Cannot parse error details"
	}

	details := preDetails(doc)
	description := descriptionText(doc)

	switch {
	case details != "" && description != "":
		return fmt.Sprintf("%s Error Description: %s Error Details: %s", prefix, description, details)
	case details != "":
		return fmt.Sprintf("%s Error Details: %s", prefix, details)
	case description != "":
		return fmt.Sprintf("%s Error Description: %s", prefix, description)
	}

	text := pageText(doc)
	if text == "" {
		text = emptyErrorPage
	}
	return fmt.Sprintf("%s Error Details: %s", prefix, text)
}

// preDetails returns the first line of the first <pre> block
func preDetails(doc *html.Node) string {
	pre := findFirst(doc, atom.Pre)
	if pre == nil {
		return ""
	}
	line, _, _ := strings.Cut(textOf(pre), "\n")
	return strings.TrimSpace(line)
}

// descriptionText looks for <p><b>description</b> <u>...</u></p>
func descriptionText(doc *html.Node) string {
	for _, p := range findAll(doc, atom.P) {
		b := findFirst(p, atom.B)
		if b == nil || textOf(b) != "description" {
			continue
		}
		if u := findFirst(p, atom.U); u != nil {
			return textOf(u)
		}
		return ""
	}
	return ""
}

func pageText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Footer, atom.Nav:
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			nodes = append(nodes, c)
		}
		nodes = append(nodes, findAll(c, a)...)
	}
	return nodes
}
