// Package cycles implements strongly-connected-component based cycle
// detection over an internal/depgraph.Graph.
package cycles

import (
	"sort"

	"codesnap/internal/depgraph"
)

// Severity buckets a cycle by its length.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// CircularDependency is one detected cycle.
type CircularDependency struct {
	CycleNodes []string `json:"cycleNodes"`
	Length     int      `json:"length"`
	Severity   Severity `json:"severity"`
}

// Options configures detection.
type Options struct {
	// IgnoreSelfLoops suppresses length-1 cycles. Defaults to true via
	// DefaultOptions.
	IgnoreSelfLoops bool
	// ReportAllCycles, when false, short-circuits after the first cycle
	// found per strongly-connected component.
	ReportAllCycles bool
	// MaxCycleLength bounds the size of SCC a minimal-path search is
	// attempted within; 0 means unbounded.
	MaxCycleLength int
}

// DefaultOptions mirrors the detector's documented defaults.
func DefaultOptions() Options {
	return Options{IgnoreSelfLoops: true}
}

func severityOf(length int) Severity {
	switch {
	case length <= 3:
		return SeverityLow
	case length <= 6:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// graphView is the minimal read surface cycles needs from depgraph.Graph,
// built once per DetectCycles call.
type graphView struct {
	nodes   []string
	nodeIdx map[string]int
	adj     [][]int // outgoing neighbor indices, duplicates allowed
}

func buildView(g *depgraph.Graph) *graphView {
	ser := g.Serialize()
	v := &graphView{nodeIdx: make(map[string]int)}
	for _, n := range ser.Nodes {
		v.nodeIdx[n] = len(v.nodes)
		v.nodes = append(v.nodes, n)
		v.adj = append(v.adj, nil)
	}
	for _, e := range ser.Edges {
		from, to := v.nodeIdx[e.From], v.nodeIdx[e.To]
		v.adj[from] = append(v.adj[from], to)
	}
	return v
}

// DetectCycles runs iterative Tarjan SCC over g, then for each
// non-trivial SCC finds a minimal cycle path via BFS, following only
// intra-SCC edges and returning as soon as an edge back to the start node
// is encountered.
func DetectCycles(g *depgraph.Graph, opts Options) []CircularDependency {
	v := buildView(g)
	sccs := tarjanSCC(v)

	var out []CircularDependency
	for _, scc := range sccs {
		if len(scc) == 1 {
			node := scc[0]
			if hasSelfEdge(v, node) {
				if !opts.IgnoreSelfLoops {
					out = append(out, CircularDependency{
						CycleNodes: []string{v.nodes[node]},
						Length:     1,
						Severity:   SeverityLow,
					})
				}
			}
			continue
		}
		if opts.MaxCycleLength > 0 && len(scc) > opts.MaxCycleLength {
			continue
		}

		cycle := minimalCyclePath(v, scc)
		if len(cycle) == 0 {
			continue
		}
		names := make([]string, len(cycle))
		for i, idx := range cycle {
			names[i] = v.nodes[idx]
		}
		out = append(out, CircularDependency{
			CycleNodes: names,
			Length:     len(names),
			Severity:   severityOf(len(names)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Length != out[j].Length {
			return out[i].Length < out[j].Length
		}
		return out[i].CycleNodes[0] < out[j].CycleNodes[0]
	})

	return out
}

func hasSelfEdge(v *graphView, node int) bool {
	for _, n := range v.adj[node] {
		if n == node {
			return true
		}
	}
	return false
}

// minimalCyclePath performs BFS within scc starting at its lexicographically
// smallest member, following only intra-SCC edges, and returns as soon as an
// edge back to the start is seen.
func minimalCyclePath(v *graphView, scc []int) []int {
	inSCC := make(map[int]bool, len(scc))
	for _, n := range scc {
		inSCC[n] = true
	}

	sorted := append([]int(nil), scc...)
	sort.Slice(sorted, func(i, j int) bool { return v.nodes[sorted[i]] < v.nodes[sorted[j]] })
	start := sorted[0]

	parent := map[int]int{start: -1}
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		neighbors := append([]int(nil), v.adj[cur]...)
		sort.Slice(neighbors, func(i, j int) bool { return v.nodes[neighbors[i]] < v.nodes[neighbors[j]] })

		for _, next := range neighbors {
			if !inSCC[next] {
				continue
			}
			if next == start && cur != start {
				return reconstructPath(parent, cur, start)
			}
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	return nil
}

func reconstructPath(parent map[int]int, cur, start int) []int {
	path := []int{start}
	for n := cur; n != start; n = parent[n] {
		path = append(path, n)
	}
	// path is currently [start, ..., cur] walked backwards from cur; reverse
	// the tail so the result reads start -> ... -> cur.
	for i, j := 1, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// tarjanSCC runs Tarjan's algorithm iteratively (explicit stack) to avoid
// recursion-depth limits on large graphs.
func tarjanSCC(v *graphView) [][]int {
	n := len(v.nodes)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	var sccs [][]int
	counter := 0

	type frame struct {
		node    int
		childIx int
	}

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		callStack := []frame{{node: start}}
		index[start] = counter
		lowlink[start] = counter
		counter++
		stack = append(stack, start)
		onStack[start] = true

		for len(callStack) > 0 {
			top := &callStack[len(callStack)-1]
			node := top.node

			if top.childIx < len(v.adj[node]) {
				child := v.adj[node][top.childIx]
				top.childIx++

				if index[child] == -1 {
					index[child] = counter
					lowlink[child] = counter
					counter++
					stack = append(stack, child)
					onStack[child] = true
					callStack = append(callStack, frame{node: child})
				} else if onStack[child] {
					if index[child] < lowlink[node] {
						lowlink[node] = index[child]
					}
				}
				continue
			}

			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := &callStack[len(callStack)-1]
				if lowlink[node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[node]
				}
			}

			if lowlink[node] == index[node] {
				var scc []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == node {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	}

	return sccs
}

// FixStrategy is a suggested remediation for a detected cycle.
type FixStrategy struct {
	Cycle       CircularDependency `json:"cycle"`
	Strategy    string             `json:"strategy"`
	Description string             `json:"description"`
	Priority    Severity           `json:"priority"`
}

// SuggestFixStrategies maps cycle length buckets to strategy labels,
// sorted with high-priority suggestions first for stable CLI rendering.
func SuggestFixStrategies(cycles []CircularDependency) []FixStrategy {
	out := make([]FixStrategy, 0, len(cycles))
	for _, c := range cycles {
		strategy, description, priority := strategyFor(c)
		out = append(out, FixStrategy{
			Cycle:       c,
			Strategy:    strategy,
			Description: description,
			Priority:    priority,
		})
	}

	priorityRank := map[Severity]int{SeverityHigh: 0, SeverityMedium: 1, SeverityLow: 2}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})

	return out
}

func strategyFor(c CircularDependency) (strategy, description string, priority Severity) {
	switch {
	case c.Length == 1:
		return "remove_self_reference", "a file imports itself; drop the self-edge", SeverityLow
	case c.Length == 2:
		return "extract_common_dependency", "pull the shared surface into a third file both sides depend on", c.Severity
	case c.Length >= 3 && c.Length <= 5:
		return "dependency_inversion", "introduce an interface one side depends on instead of the concrete file", SeverityMedium
	default:
		return "architectural_refactoring", "cycle spans too many files to fix locally; reconsider the module boundary", SeverityHigh
	}
}
