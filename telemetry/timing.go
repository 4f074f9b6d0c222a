package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector keeps a tree of wall-clock timings. The first timer
// started becomes the root; later Start calls nest under the innermost
// timer that has not ended yet.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name       string
	start, end time.Time
	parent     *timerNode
	children   []*timerNode
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins timing name.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree to w. It writes nothing if no timer was
// started.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	formatTimingTree(w, c.root)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = t.collector.now()
	if t.collector.current == t.node && t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

// Child starts a timer nested under t regardless of which timer is current.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: t.collector.now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}
