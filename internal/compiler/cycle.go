package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/vaultsdk/internal/typeexpr"
	"github.com/roach88/vaultsdk/internal/types"
)

// CycleWarning represents records whose required attributes refer to each
// other, so that no finite value of any of them exists.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["A", "B", "A"]
	Message string   `json:"message"` // Human-readable description
}

// AnalyzeRecordCycles detects records that can never be constructed.
//
// A record requires another when one of its attributes is typed with the bare
// name of that record. Optional, List, Dict, Tuple and Union attributes can
// always be satisfied without recursing, so they add no edge.
//
// The algorithm:
//  1. Build record → required records graph
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop
//
// Output is sorted by the first record of each path.
func AnalyzeRecordCycles(declared []types.Describer) []CycleWarning {
	graph := buildRequirementGraph(declared)
	if len(graph) == 0 {
		return []CycleWarning{}
	}

	var warnings []CycleWarning
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	slices.SortFunc(warnings, func(a, b CycleWarning) int { return strings.Compare(a.Path[0], b.Path[0]) })
	return warnings
}

// requirementGraph maps record name → records it requires.
type requirementGraph map[string][]string

func buildRequirementGraph(declared []types.Describer) requirementGraph {
	records := make(map[string]*types.ClassSpec)
	for _, d := range declared {
		if cs, ok := d.Spec().(*types.ClassSpec); ok {
			records[cs.Name] = cs
		}
	}

	graph := make(requirementGraph, len(records))
	for name, cs := range records {
		graph[name] = []string{}
		for _, attr := range cs.PublicAttributes {
			node, err := typeexpr.Parse(attr.Type)
			if err != nil {
				continue
			}
			simple, ok := node.(typeexpr.Simple)
			if !ok {
				continue
			}
			if _, isRecord := records[simple.Name]; isRecord && !slices.Contains(graph[name], simple.Name) {
				graph[name] = append(graph[name], simple.Name)
			}
		}
		slices.Sort(graph[name])
	}
	return graph
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph requirementGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in name order so the result is deterministic.
func tarjanSCC(graph requirementGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
func cycleSCCToWarning(scc []string, graph requirementGraph) CycleWarning {
	if len(scc) == 1 {
		name := scc[0]
		return CycleWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Record %s requires itself and can never be constructed", name),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Records can never be constructed, required attributes form a cycle: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath follows edges inside the SCC from its first member
// until it returns to it.
func reconstructCyclePath(scc []string, graph requirementGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
