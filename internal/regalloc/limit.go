package regalloc

import (
	"sort"

	"cprizm/internal/arch"
	"cprizm/internal/ir"
)

// limit trims currentVars down to what fits in config by evicting the
// variables with the furthest next use (Belady's rule), returning the
// variables that must be spilled to a stack slot to be recovered later.
// Grounded on spilling/limit.rs's limit function and its register_skips
// closure.
func limit(currentVars, spilled map[ir.VarKey]ir.Variable, instructions []ir.Statement, from int, config arch.RegisterConfig, acrossDistance map[ir.VarKey]int) []ir.Variable {
	localDistance := make(map[ir.VarKey]int)
	for i := len(instructions) - 1; i >= from; i-- {
		for _, v := range instructions[i].UsedVariables() {
			localDistance[v.Key()] = i - from
		}
	}

	maxLocal := 0
	for _, d := range localDistance {
		if d > maxLocal {
			maxLocal = d
		}
	}
	maxAcross := maxLocal
	for _, d := range acrossDistance {
		if v := d + maxLocal; v > maxAcross {
			maxAcross = v
		}
	}

	type scored struct {
		v    ir.Variable
		dist int
	}
	sortedCurrent := make([]scored, 0, len(currentVars))
	for key, v := range currentVars {
		var dist int
		if d, ok := localDistance[key]; ok {
			dist = d
		} else if d, ok := acrossDistance[key]; ok {
			dist = d + maxLocal
		} else {
			dist = maxAcross + 3
		}
		sortedCurrent = append(sortedCurrent, scored{v: v, dist: dist})
	}
	sort.SliceStable(sortedCurrent, func(i, j int) bool { return sortedCurrent[i].dist < sortedCurrent[j].dist })

	gpUsed, fpUsed := 0, 0
	skip := func(v ir.Variable) bool {
		if v.Type.IsFloat() {
			fpUsed++
			return fpUsed <= config.FloatingPointCount
		}
		gpUsed++
		return gpUsed <= config.GeneralPurposeCount
	}

	var result []ir.Variable
	for _, sc := range sortedCurrent {
		if skip(sc.v) {
			continue
		}
		key := sc.v.Key()
		if _, alreadySpilled := spilled[key]; !alreadySpilled && sc.dist < maxAcross+2 {
			result = append(result, sc.v)
		}
		delete(spilled, key)
	}

	gpUsed, fpUsed = 0, 0
	next := make(map[ir.VarKey]ir.Variable, len(sortedCurrent))
	for _, sc := range sortedCurrent {
		if skip(sc.v) {
			next[sc.v.Key()] = sc.v
		}
	}
	for k := range currentVars {
		delete(currentVars, k)
	}
	for k, v := range next {
		currentVars[k] = v
	}

	return result
}
