// Package compiler turns a builder declaration graph into the immutable
// compiled network model.
//
// Compilation is a single synchronous pass with a strict internal order:
// buses are fixed first, then types are ordered and elaborated, identifiers
// and buses are resolved, messages are compiled, and finally nodes are
// linked in two phases (all tx-side linking across all nodes before any
// rx stream, all nodes constructed before extern-command resolution).
//
// User input errors surface as *CompileError values. Violations that can
// only come from builder misuse (an entity referenced but never registered,
// an unresolved identifier template reaching message compilation, a usage
// slot bound twice) panic instead.
package compiler
