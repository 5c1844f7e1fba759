package renamer

import (
	"fmt"
	"strings"
)

// BuildNamePrompt assembles the user prompt for the PDF naming request.
// The prompt is deterministic for a given preview so identical documents
// produce identical requests. Missing fields are stated explicitly rather
// than omitted, which keeps the model from inventing placeholders.
func BuildNamePrompt(originalBase, title, excerpt string, maxWords int) string {
	if maxWords < 1 {
		maxWords = 1
	}
	minWords := 2
	if maxWords < minWords {
		minWords = maxWords
	}
	if title == "" {
		title = "(none)"
	}
	if excerpt == "" {
		excerpt = "(none)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest a descriptive filename of %d to %d words for this document.\n", minWords, maxWords)
	b.WriteString("Prefer the document title when it is meaningful. ")
	b.WriteString("Avoid generic words like document, file, untitled, or download.\n\n")
	fmt.Fprintf(&b, "Current filename: %s\n", originalBase)
	fmt.Fprintf(&b, "Document title: %s\n", title)
	fmt.Fprintf(&b, "Document text begins:\n%s\n", excerpt)
	return b.String()
}
