package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/amortize/output"
)

// slowOperation is the duration from which a stage is highlighted.
const slowOperation = 100 * time.Millisecond

// formatTimingTree prints the tree with box-drawing branches:
//
//	run: 182ms
//	├─ rates.extract (14 statements): 120ms
//	└─ interest.accrue alice: 40ms
func formatTimingTree(w io.Writer, root *timerNode) {
	styles := output.NewStyles(w)
	_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), formatDuration(root.duration()))

	for i, child := range root.children {
		formatNode(w, styles, child, "", i == len(root.children)-1)
	}
}

func formatNode(w io.Writer, styles *output.Styles, node *timerNode, prefix string, last bool) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	d := node.duration()
	timing := styles.Timing(formatDuration(d), d >= slowOperation)
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), node.name, timing)

	for i, child := range node.children {
		formatNode(w, styles, child, prefix+extension, i == len(node.children)-1)
	}
}

// duration is zero for timers that never ended.
func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
