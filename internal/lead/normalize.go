package lead

import "strings"

// normalizeReplacer rewrites the invisible spacing code points that CRM
// payloads are known to carry. Width-bearing spaces become a regular
// space so words stay separated; zero-width characters are dropped.
var normalizeReplacer = strings.NewReplacer(
	" ", " ", // no-break space
	" ", " ", // thin space
	" ", " ", // narrow no-break space
	"​", "", // zero width space
	"‌", "", // zero width non-joiner
	"‍", "", // zero width joiner
	"\uFEFF", "", // byte order mark
)

// Normalize strips leading/trailing whitespace and a fixed set of
// invisible Unicode spacing characters from s. Applying it twice yields
// the same result as applying it once.
func Normalize(s string) string {
	return strings.TrimSpace(normalizeReplacer.Replace(s))
}
