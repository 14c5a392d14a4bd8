package timings

import "math/rand"

// Block identifies one block type of the experiment.
type Block string

const (
	// BlockBaseline records the resting signal, no stimulation.
	BlockBaseline Block = "baseline"

	// BlockSynchronous locks stimuli to detected heartbeats.
	BlockSynchronous Block = "synchronous"

	// BlockIsochronous emits stimuli at the fixed mean cardiac period.
	BlockIsochronous Block = "isochronous"

	// BlockAsynchronous emits stimuli at timings synthesized by Generate.
	BlockAsynchronous Block = "asynchronous"
)

// blockOrder is the canonical candidate order for block selection.
// Selection is random among candidates; the order only fixes which index
// maps to which block for a given random draw.
var blockOrder = []Block{BlockBaseline, BlockSynchronous, BlockIsochronous, BlockAsynchronous}

// NextBlock picks the next block type given the blocks already run.
//
// The session opens with a fixed (baseline, synchronous) pair so the first
// asynchronous or isochronous block always has a reference to draw from.
// After the opening, blocks are balanced per group of four: within a group
// no type repeats, and a group never opens with the type that closed the
// previous one.
//
// rng may be nil, in which case the process-wide source is used.
func NextBlock(previous []Block, rng *rand.Rand) Block {
	switch len(previous) {
	case 0:
		return BlockBaseline
	case 1:
		return BlockSynchronous
	}

	idx := len(previous) % 4
	if idx == 0 {
		return pickBlock(rng, excludeBlocks(previous[len(previous)-1:]))
	}
	return pickBlock(rng, excludeBlocks(previous[len(previous)-idx:]))
}

// PlanBlocks builds a block sequence of length n by repeated NextBlock
// calls. rng may be nil.
func PlanBlocks(n int, rng *rand.Rand) []Block {
	plan := make([]Block, 0, n)
	for len(plan) < n {
		plan = append(plan, NextBlock(plan, rng))
	}
	return plan
}

// excludeBlocks returns the block types not present in used, in canonical
// order.
func excludeBlocks(used []Block) []Block {
	candidates := make([]Block, 0, len(blockOrder))
	for _, b := range blockOrder {
		seen := false
		for _, u := range used {
			if b == u {
				seen = true
				break
			}
		}
		if !seen {
			candidates = append(candidates, b)
		}
	}
	return candidates
}

func pickBlock(rng *rand.Rand, candidates []Block) Block {
	if len(candidates) == 1 {
		return candidates[0]
	}
	if rng != nil {
		return candidates[rng.Intn(len(candidates))]
	}
	return candidates[rand.Intn(len(candidates))]
}
