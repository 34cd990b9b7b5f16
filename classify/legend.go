package classify

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultLegendFormat はレジェンドの数値の書式です。
const DefaultLegendFormat = "%.2f"

// LegendClasses は各クラスの区間を "[lowest, b0]"、"(b0, b1]" の形で返します。
// 数値はformat（fmtの動詞、空ならDefaultLegendFormat）で書式化され、左右の端点はそれぞれ同じ幅に揃えられます。
func (c *Classifier) LegendClasses(format string) []string {
	if format == "" {
		format = DefaultLegendFormat
	}
	lowest := min(c.lowest, c.bins[0])

	left := make([]string, c.K())
	right := make([]string, c.K())
	for i, b := range c.bins {
		lo := lowest
		if i > 0 {
			lo = c.bins[i-1]
		}
		left[i] = fmt.Sprintf(format, lo)
		right[i] = fmt.Sprintf(format, b)
	}
	lw, rw := maxLen(left), maxLen(right)

	out := make([]string, c.K())
	for i := range out {
		open := "("
		if i == 0 {
			open = "["
		}
		out[i] = fmt.Sprintf("%s%*s, %*s]", open, lw, left[i], rw, right[i])
	}
	return out
}

// String は区間と度数の表を返します。
func (c *Classifier) String() string {
	intervals := c.LegendClasses(DefaultLegendFormat)
	counts := make([]string, len(c.counts))
	for i, n := range c.counts {
		counts[i] = humanize.Comma(int64(n))
	}
	iw := max(maxLen(intervals), len("Interval"))
	cw := max(maxLen(counts), len("Count"))

	var sb strings.Builder
	sb.WriteString(c.Name())
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%*s   %*s\n", iw, "Interval", cw, "Count")
	sb.WriteString(strings.Repeat("-", iw+3+cw))
	sb.WriteString("\n")
	for i := range intervals {
		fmt.Fprintf(&sb, "%*s | %*s\n", iw, intervals[i], cw, counts[i])
	}
	return sb.String()
}

func maxLen(ss []string) int {
	w := 0
	for _, s := range ss {
		w = max(w, len(s))
	}
	return w
}
