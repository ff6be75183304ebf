// Package aggregates defines domain-facing aggregate contracts and the closed
// failure taxonomy shared by every aggregate.
//
// These contracts avoid persistence/transport details and represent semantic
// write boundaries where invariants must be enforced atomically.
package aggregates
