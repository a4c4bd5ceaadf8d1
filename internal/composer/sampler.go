package composer

// sample draws up to n distinct items from pool in random order. The pool
// itself is never mutated.
func (c *Composer) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	indices := c.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, idx := range indices {
		out[i] = pool[idx]
	}
	return out
}
