// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package tac

// CleanupControlFlow removes jump clutter left behind by lowering: gotos that
// fall through to their own target, labels nothing jumps to, and goto chains
// that can be resolved to their final destination. The pass runs to a fixed
// point and is idempotent.
func (cb *CodeBlock) CleanupControlFlow() {
	changed := true
	for changed {
		changed = false
		// adjacency first: chain compression may retarget a goto away from
		// the label it falls through to
		if cb.removeRedundantGotos() {
			changed = true
		}
		if cb.removeUnreferencedLabels() {
			changed = true
		}
		if cb.compressJumpChains() {
			changed = true
		}
	}
}

// labelIndex maps each defined label to the index of its definition.
func (cb *CodeBlock) labelIndex() map[*Label]int {
	idx := make(map[*Label]int)
	for i, in := range cb.instrs {
		if in.Op == OpLabel {
			idx[in.Dst.(*Label)] = i
		}
	}
	return idx
}

// compressJumpChains retargets jumps whose destination label leads, through
// nothing but label definitions, to an unconditional goto. A visited set
// guards against goto cycles.
func (cb *CodeBlock) compressJumpChains() bool {
	idx := cb.labelIndex()
	changed := false
	for _, in := range cb.instrs {
		l := in.Target()
		if l == nil {
			continue
		}
		visited := map[*Label]bool{l: true}
		final := l
		for {
			def, ok := idx[final]
			if !ok {
				break
			}
			j := def + 1
			for j < len(cb.instrs) && cb.instrs[j].Op == OpLabel {
				j++
			}
			if j >= len(cb.instrs) || cb.instrs[j].Op != OpGoto {
				break
			}
			next := cb.instrs[j].Dst.(*Label)
			if visited[next] {
				break
			}
			visited[next] = true
			final = next
		}
		if final != l {
			in.Dst = final
			changed = true
		}
	}
	return changed
}

// removeRedundantGotos deletes gotos that only skip over label definitions to
// reach their own target.
func (cb *CodeBlock) removeRedundantGotos() bool {
	changed := false
	out := cb.instrs[:0]
	for i, in := range cb.instrs {
		if in.Op == OpGoto {
			target := in.Dst.(*Label)
			redundant := false
			for j := i + 1; j < len(cb.instrs) && cb.instrs[j].Op == OpLabel; j++ {
				if cb.instrs[j].Dst.(*Label) == target {
					redundant = true
					break
				}
			}
			if redundant {
				changed = true
				continue
			}
		}
		out = append(out, in)
	}
	cb.instrs = out
	return changed
}

// removeUnreferencedLabels deletes label definitions no jump refers to.
func (cb *CodeBlock) removeUnreferencedLabels() bool {
	refs := make(map[*Label]int)
	for _, in := range cb.instrs {
		if l := in.Target(); l != nil {
			refs[l]++
		}
	}
	changed := false
	out := cb.instrs[:0]
	for _, in := range cb.instrs {
		if in.Op == OpLabel && refs[in.Dst.(*Label)] == 0 {
			changed = true
			continue
		}
		out = append(out, in)
	}
	cb.instrs = out
	return changed
}
