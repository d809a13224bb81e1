package report

import (
	"regexp"
	"strings"
)

var (
	fenceOpenPattern  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClosePattern = regexp.MustCompile("\\s*```$")
	objectPattern     = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern      = regexp.MustCompile(`(?s)\[.*\]`)
)

var chattyPrefixes = []string{"Output:", "Answer:", "Result:", "JSON:", "Here is", "Here's"}

// cleanJSONResponse strips markdown fences and conversational prefixes from
// a model reply and returns the first JSON object or array it contains.
// Models ignore "no markdown" instructions often enough that this runs on
// every reply.
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	text = fenceOpenPattern.ReplaceAllString(text, "")
	text = fenceClosePattern.ReplaceAllString(text, "")

	for _, prefix := range chattyPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}

	objLoc := objectPattern.FindStringIndex(text)
	arrLoc := arrayPattern.FindStringIndex(text)

	switch {
	case objLoc != nil && (arrLoc == nil || objLoc[0] < arrLoc[0]):
		return text[objLoc[0]:objLoc[1]]
	case arrLoc != nil:
		return text[arrLoc[0]:arrLoc[1]]
	default:
		return strings.TrimSpace(text)
	}
}
