package asm

import (
	"iter"
	"maps"
)

// SymbolTable maps labels to word addresses. A symbol is define-once; the
// table is cleared at the start of every assembly.
type SymbolTable struct {
	table map[string]uint16
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: make(map[string]uint16)}
}

// Define binds name to value, failing on redefinition.
func (st *SymbolTable) Define(name string, value uint16) (err error) {
	if _, ok := st.table[name]; ok {
		err = ErrDuplicateLabel(name)
		return
	}

	st.table[name] = value

	return
}

// Lookup returns the value bound to name.
func (st *SymbolTable) Lookup(name string) (value uint16, ok bool) {
	value, ok = st.table[name]
	return
}

// Len returns the number of defined symbols.
func (st *SymbolTable) Len() int {
	return len(st.table)
}

// Clear removes every symbol.
func (st *SymbolTable) Clear() {
	clear(st.table)
}

// All iterates over a snapshot of the table.
func (st *SymbolTable) All() iter.Seq2[string, uint16] {
	return maps.All(maps.Clone(st.table))
}

// Snapshot copies the table into a plain map.
func (st *SymbolTable) Snapshot() map[string]uint16 {
	return maps.Clone(st.table)
}
