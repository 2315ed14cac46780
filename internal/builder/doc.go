// Package builder holds the mutable declaration graph a client assembles
// before compilation. Builder entities are plain shared pointers: the same
// *Message handle may sit in a node's tx list and in a stream declaration.
//
// The graph is consumed exactly once by compiler.Compile; builder entities
// are not reusable afterwards.
package builder
