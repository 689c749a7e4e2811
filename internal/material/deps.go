package material

import (
	"sort"
	"strings"
)

// Dependencies returns the canonical endgame classes that probing name
// can reach in one step: every single capture of a non-king piece on
// either side, and every promotion of a pawn on either side. Results
// are normalized and deduplicated, in deterministic order.
func Dependencies(name string) []string {
	w, b, ok := strings.Cut(name, "v")
	if !ok {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(dep string) {
		dep = Normalize(dep)
		if !seen[dep] {
			seen[dep] = true
			out = append(out, dep)
		}
	}

	for i := 1; i < len(pieceOrder); i++ {
		p := pieceOrder[i]

		// Promotions.
		if p != 'P' && strings.ContainsRune(w, 'P') {
			add(strings.Replace(w, "P", string(p), 1) + "v" + b)
		}
		if p != 'P' && strings.ContainsRune(b, 'P') {
			add(w + "v" + strings.Replace(b, "P", string(p), 1))
		}

		// Captures.
		if strings.IndexByte(w, p) >= 0 && len(w) > 1 {
			add(removeOne(w, p) + "v" + b)
		}
		if strings.IndexByte(b, p) >= 0 && len(b) > 1 {
			add(w + "v" + removeOne(b, p))
		}
	}

	return out
}

func removeOne(side string, piece byte) string {
	i := strings.IndexByte(side, piece)
	if i < 0 {
		return side
	}
	return side[:i] + side[i+1:]
}

// AllDependencies returns the transitive closure of Dependencies over
// the given roots, roots included, sorted by Less.
func AllDependencies(roots ...string) []string {
	seen := make(map[string]bool, len(roots))
	var out, queue []string
	for _, r := range roots {
		r = Normalize(r)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
			queue = append(queue, r)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range Dependencies(cur) {
			if !seen[dep] {
				seen[dep] = true
				out = append(out, dep)
				queue = append(queue, dep)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// DependencyDOT renders the dependency graph of the roots and their
// transitive closure as Graphviz DOT text.
func DependencyDOT(roots ...string) string {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")

	closed := make(map[string]bool)
	var queue []string
	for _, r := range roots {
		r = Normalize(r)
		if closed[r] {
			continue
		}
		closed[r] = true
		if len(Dependencies(r)) == 0 {
			// A dep-less root still shows up as a lone node.
			sb.WriteString("  ")
			sb.WriteString(r)
			sb.WriteString(";\n")
			continue
		}
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range Dependencies(cur) {
			sb.WriteString("  ")
			sb.WriteString(cur)
			sb.WriteString(" -> ")
			sb.WriteString(dep)
			sb.WriteString(";\n")
			if !closed[dep] {
				closed[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
