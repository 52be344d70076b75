package regalloc

import "cprizm/internal/ir"

// ReloadList accumulates the reloads produced by spilling each block,
// keyed by block so a later pass (phi destruction, or codegen) can look up
// what got reloaded in a given block without re-running the spiller.
// Grounded on spilling/reload_list.rs's ReloadList, replacing its
// pointer-identity BTreeMap key (Rust's InnerBlock arena cells are
// pointer-stable; this IR's BlockID already is) with a plain map key.
type ReloadList struct {
	data map[ir.BlockID][]Reload
	// order records blocks in the order Add first saw them, since Go map
	// iteration order is unspecified and callers expect deterministic
	// codegen output.
	order []ir.BlockID
}

func NewReloadList() *ReloadList {
	return &ReloadList{data: make(map[ir.BlockID][]Reload)}
}

// Add appends reloads recorded against block, creating the entry if this is
// the first time block has been seen.
func (l *ReloadList) Add(block ir.BlockID, reloads []Reload) {
	if _, ok := l.data[block]; !ok {
		l.order = append(l.order, block)
	}
	l.data[block] = append(l.data[block], reloads...)
}

// Get returns the reloads recorded for block, if any.
func (l *ReloadList) Get(block ir.BlockID) ([]Reload, bool) {
	r, ok := l.data[block]
	return r, ok
}

// Blocks returns the block IDs that have recorded reloads, in the order
// they were first added.
func (l *ReloadList) Blocks() []ir.BlockID {
	return append([]ir.BlockID(nil), l.order...)
}
