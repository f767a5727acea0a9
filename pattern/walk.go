package pattern

// Leaves returns the distinct Attribute and Ref subpatterns of p in
// first-visit order. These are the tokens an element's content can
// consume; the simulator derives against exactly this set.
func Leaves(p *Pattern) []*Pattern {
	var leaves []*Pattern
	VisitSubpatterns(p, func(q *Pattern) {
		if q.kind == KindAttribute || q.kind == KindRef {
			leaves = append(leaves, q)
		}
	})
	return leaves
}

// NullableDefines returns the names of the nullable Define subpatterns
// of p in first-visit order.
func NullableDefines(p *Pattern) []string {
	var names []string
	seen := map[string]struct{}{}
	VisitSubpatterns(p, func(q *Pattern) {
		if q.kind != KindDefine || !q.nullable {
			return
		}
		if _, ok := seen[q.name]; ok {
			return
		}
		seen[q.name] = struct{}{}
		names = append(names, q.name)
	})
	return names
}

// VisitSubpatterns calls visit once for every distinct subpattern of p,
// in depth-first pre-order. Sharing in the interned DAG makes pointer
// identity a sound visited check.
func VisitSubpatterns(p *Pattern, visit func(*Pattern)) {
	visited := map[*Pattern]struct{}{}
	var walk func(*Pattern)
	walk = func(q *Pattern) {
		if q == nil {
			return
		}
		if _, ok := visited[q]; ok {
			return
		}
		visited[q] = struct{}{}
		visit(q)
		walk(q.p1)
		walk(q.p2)
	}
	walk(p)
}
