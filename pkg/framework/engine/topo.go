package engine

// sortUnits orders the registered units so that every unit runs after the
// units feeding it. Ties keep registration order. When only units inside
// feedback cycles remain, the earliest registered one is scheduled next and
// its inputs from later units read the previous block.
func (e *Engine) sortUnits() []Unit {
	n := len(e.units)
	index := make(map[*Node]int, n)
	for i, u := range e.units {
		index[u.base()] = i
	}

	indegree := make([]int, n)
	succ := make([][]int, n)
	for v, u := range e.units {
		seen := make(map[int]bool)
		for _, in := range u.Inputs() {
			for _, src := range in.sources {
				s, ok := index[src.node]
				if !ok || s == v || seen[s] {
					continue
				}
				seen[s] = true
				succ[s] = append(succ[s], v)
				indegree[v]++
			}
		}
	}

	order := make([]Unit, 0, n)
	done := make([]bool, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			// Cycle: break it at the earliest registered unit.
			for i := 0; i < n; i++ {
				if !done[i] {
					next = i
					break
				}
			}
		}
		done[next] = true
		order = append(order, e.units[next])
		for _, s := range succ[next] {
			indegree[s]--
		}
	}
	return order
}
