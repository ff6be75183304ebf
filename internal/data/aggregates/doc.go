// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Repository owns the write boundary of in-memory aggregates: writes to one id
// are serialized, writes to different ids run in parallel, and readers always
// see a fully committed snapshot. The gorm TxRunner gives the secondary index
// repos the same all-or-nothing boundary for multi-row writes.
package aggregates
