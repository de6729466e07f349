// Package extract pulls verifiable claims and attribute mentions out of
// free-text explanations.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Normalize prepares an explanation text for analysis: markup from
// LLM-proxying scoring endpoints is stripped to visible text and whitespace
// is collapsed
func Normalize(text string) string {
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		if doc, err := html.Parse(strings.NewReader(text)); err == nil {
			text = visibleText(doc)
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// visibleText walks an HTML tree collecting text nodes, skipping non-visible
// containers
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// SplitSentences splits a text into sentences. Bullet markers count as
// sentence breaks since explanations frequently arrive as reason lists.
func SplitSentences(text string) []string {
	for _, marker := range []string{"\n- ", "\n* ", "\n• ", "; "} {
		text = strings.ReplaceAll(text, marker, ". ")
	}
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder
	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= 3 {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Avoid splitting decimals like "0.25" or "$1,200.50"
			if r == '.' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
				continue
			}
			flush()
		}
	}
	flush()
	return sentences
}
