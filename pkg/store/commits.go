package store

import (
	"fmt"
	"strings"

	"github.com/aretw0/grit/pkg/item"
)

const commitFooter = "Powered-by: Grit"

// commitMessage builds the human-readable summary recorded for a mutation,
// e.g. "Add todo: Buy oat milk".
func commitMessage(verb string, it item.Item) string {
	return appendFooter(fmt.Sprintf("%s %s: %s", verb, it.Type(), it.Name()))
}

// appendFooter appends the tool footer to a commit message if not present.
func appendFooter(msg string) string {
	if strings.Contains(msg, commitFooter) {
		return msg
	}

	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if !strings.HasSuffix(msg, "\n\n") {
		msg += "\n"
	}

	return msg + commitFooter
}
