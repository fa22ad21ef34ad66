package typeexpr

import "strings"

// Node is a sealed interface for type expression AST nodes.
// Only Simple and Generic implement it.
type Node interface {
	typeNode() // Sealed
	String() string
}

// Simple is a bare type name, e.g. "int" or "Posting".
type Simple struct {
	Name string
}

func (Simple) typeNode() {}

// String renders the canonical form of the node.
func (s Simple) String() string {
	return s.Name
}

// Generic is a parameterised type, e.g. "Dict[str, int]".
type Generic struct {
	Name string
	Args []Node
}

func (Generic) typeNode() {}

// String renders the canonical form of the node.
func (g Generic) String() string {
	parts := make([]string, len(g.Args))
	for i, arg := range g.Args {
		parts[i] = arg.String()
	}
	return g.Name + "[" + strings.Join(parts, ", ") + "]"
}

// Names returns every distinct name referenced by n, in first-seen order.
func Names(n Node) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case Simple:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		case Generic:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
			for _, arg := range v.Args {
				walk(arg)
			}
		}
	}
	walk(n)
	return out
}
