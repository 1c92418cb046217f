package ssa

// ReversePostOrder returns the blocks of f in reverse post-order,
// starting from f.Entry. Unreachable blocks are excluded.
func ReversePostOrder(f *Func) []*Block {
	if f.Entry == nil {
		return nil
	}

	seen := make([]bool, f.nextBlockID)
	order := make([]*Block, 0, len(f.Blocks))

	var dfs func(b *Block)
	dfs = func(b *Block) {
		if seen[b.ID] {
			return
		}
		seen[b.ID] = true
		for _, s := range b.Succs {
			dfs(s)
		}
		order = append(order, b)
	}
	dfs(f.Entry)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	return order
}

// ComputeDom computes the immediate dominator tree for f using
// Cooper, Harvey, and Kennedy's "A Simple, Fast Dominance Algorithm".
// It populates Block.Idom and Block.Dominees for all reachable blocks;
// unreachable blocks get a nil Idom.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}

	rpo := ReversePostOrder(f)
	if len(rpo) == 0 {
		return
	}

	// num[id] is the rpo index + 1; 0 means unreachable.
	num := make([]int, f.nextBlockID)
	for i, b := range rpo {
		num[b.ID] = i + 1
	}

	intersect := func(x, y *Block) *Block {
		for x != y {
			for num[x.ID] > num[y.ID] {
				x = x.Idom
			}
			for num[y.ID] > num[x.ID] {
				y = y.Idom
			}
		}
		return x
	}

	entry := rpo[0]
	entry.Idom = entry // sentinel until the fixpoint is reached

	for changed := true; changed; {
		changed = false

		for _, b := range rpo[1:] {
			var idom *Block
			for _, p := range b.Preds {
				if num[p.ID] == 0 || p.Idom == nil {
					continue
				}
				if idom == nil {
					idom = p
				} else {
					idom = intersect(p, idom)
				}
			}

			if idom != nil && b.Idom != idom {
				b.Idom = idom
				changed = true
			}
		}
	}

	entry.Idom = nil

	for _, b := range rpo[1:] {
		b.Idom.Dominees = append(b.Idom.Dominees, b)
	}
}

// Dominates reports whether a dominates b. Every block dominates itself.
// ComputeDom must have been called first.
func (a *Block) Dominates(b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}

// ComputeDomFrontier computes the dominance frontier for each block in f.
// ComputeDom must have been called first.
func ComputeDomFrontier(f *Func) map[*Block][]*Block {
	df := make(map[*Block][]*Block)

	for _, b := range f.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			for r := p; r != nil && r != b.Idom; r = r.Idom {
				df[r] = appendUnique(df[r], b)
			}
		}
	}

	return df
}

func appendUnique(list []*Block, b *Block) []*Block {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
