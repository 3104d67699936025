package equity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// compileDamagePattern turns a column-name pattern with an {rp} placeholder,
// e.g. "Total Damage ({rp}Y)", into a regexp capturing the return period.
func compileDamagePattern(pattern string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(pattern)
	if !strings.Contains(escaped, `\{rp\}`) {
		return nil, fmt.Errorf("damage column pattern %q has no {rp} placeholder", pattern)
	}
	expr := "^" + strings.Replace(escaped, `\{rp\}`, `(\d+)`, 1) + "$"
	return regexp.Compile(expr)
}

// returnPeriodFromColumn extracts the return period from a column name, or
// reports false when the name does not match the pattern.
func returnPeriodFromColumn(re *regexp.Regexp, name string) (int, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	rp, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return rp, true
}
