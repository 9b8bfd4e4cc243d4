package classify

import (
	"strings"

	"protokoll/internal/core/route"
)

// Indicator vocabularies for register inference. Occurrences are counted
// as substrings, consistent with every other match in this package
var (
	workIndicators     = []string{"meeting", "project", "deadline", "team", "client", "report"}
	personalIndicators = []string{"family", "weekend", "vacation", "hobby", "friend"}
)

// InferContextType labels a transcript work, personal, or mixed by
// counting indicator occurrences. A margin of one keeps a single stray
// indicator from flipping the register: work wins only when its count
// beats personal by two or more, and vice versa
func InferContextType(text string) route.ContextType {
	lower := strings.ToLower(text)
	work := occurrences(lower, workIndicators)
	personal := occurrences(lower, personalIndicators)
	switch {
	case work > personal+1:
		return route.ContextWork
	case personal > work+1:
		return route.ContextPersonal
	default:
		return route.ContextMixed
	}
}

func occurrences(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}
