// Package ir holds the immutable compiled network model.
//
// This package contains type definitions plus the canonical serialization
// used for fingerprinting. All other internal packages import ir; ir imports
// nothing internal. This keeps the model the foundational layer with no
// circular dependencies.
//
// Entities in this package are constructed once by the compiler and never
// mutated afterwards, with two deliberate exceptions: a Message's usage and
// an ObjectEntry's owning node are derived during linking and stored in
// write-once slots. Binding either of them twice is a programming fault and
// panics.
package ir
