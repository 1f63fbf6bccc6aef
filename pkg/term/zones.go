package term

import (
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
)

// Marker tags a rendered region as belonging to a node. Views call Mark
// around each interactive element.
type Marker interface {
	Mark(node dispatch.NodeID, s string) string
}

// HitTester resolves which marked nodes lie under the mouse.
type HitTester interface {
	Marker
	// Scan strips the markers from a rendered frame and records where
	// each node ended up.
	Scan(frame string) string
	// Hit returns the marked nodes containing the mouse position, in
	// ascending order.
	Hit(msg tea.MouseMsg) []dispatch.NodeID
	Close()
}

// Zones is the bubblezone backed HitTester.
type Zones struct {
	m      *zone.Manager
	prefix string
	marked map[dispatch.NodeID]string
}

// NewZones creates a zone manager private to one model.
func NewZones() *Zones {
	m := zone.New()
	return &Zones{m: m, prefix: m.NewPrefix(), marked: make(map[dispatch.NodeID]string)}
}

func (z *Zones) Mark(node dispatch.NodeID, s string) string {
	id, ok := z.marked[node]
	if !ok {
		id = z.prefix + strconv.Itoa(int(node))
		z.marked[node] = id
	}
	return z.m.Mark(id, s)
}

func (z *Zones) Scan(frame string) string {
	return z.m.Scan(frame)
}

func (z *Zones) Hit(msg tea.MouseMsg) []dispatch.NodeID {
	var out []dispatch.NodeID
	for node, id := range z.marked {
		if z.m.Get(id).InBounds(msg) {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (z *Zones) Close() {
	z.m.Close()
}
