package extract

import (
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// Mentions finds which schema attributes an explanation text talks about.
// Returns attribute name -> the first sentence giving the mention context.
func Mentions(text string) map[string]string {
	found := make(map[string]string)
	for _, sentence := range SplitSentences(Normalize(text)) {
		lower := strings.ToLower(sentence)
		for _, spec := range model.Attributes() {
			if _, seen := found[spec.Name]; seen {
				continue
			}
			if MentionsAttribute(lower, spec) {
				found[spec.Name] = sentence
			}
		}
	}
	return found
}

// MentionsAttribute reports whether a lowercased sentence refers to the
// attribute, by synonym or by the attribute name itself
func MentionsAttribute(lower string, spec model.AttributeSpec) bool {
	if strings.Contains(lower, strings.ReplaceAll(spec.Name, "_", " ")) {
		return true
	}
	for _, syn := range spec.Synonyms {
		if strings.Contains(lower, syn) {
			return true
		}
	}
	return false
}

// MentionedIn reports whether a ranked feature name (possibly a one-hot
// attr=category column) is mentioned anywhere in the mention index
func MentionedIn(mentions map[string]string, feature string) bool {
	attr := feature
	if i := strings.IndexByte(attr, '='); i >= 0 {
		attr = attr[:i]
	}
	_, ok := mentions[attr]
	return ok
}
