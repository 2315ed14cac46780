package ir

import "fmt"

// ObjectAccess is the access mode of an object entry.
type ObjectAccess string

const (
	AccessReadOnly  ObjectAccess = "read"
	AccessWriteOnly ObjectAccess = "write"
	AccessReadWrite ObjectAccess = "read_write"
)

// ObjectEntry is a node-local addressable value, analogous to an
// object-dictionary entry. IDs are sequential, 0-based and assigned per
// node in declaration order; they are not globally unique.
type ObjectEntry struct {
	Name        string
	Description string
	Unit        string
	ID          uint32
	Type        Type
	Access      ObjectAccess
	Visibility  Visibility

	node *Node // write-once back-reference, bound after node construction
}

// BindNode sets the owning node. Called exactly once after the node is
// constructed; a second call is a programming fault.
func (oe *ObjectEntry) BindNode(n *Node) {
	if oe.node != nil {
		panic(fmt.Sprintf("ir: node of object entry %q bound twice (have %q, new %q)",
			oe.Name, oe.node.Name, n.Name))
	}
	oe.node = n
}

// Node returns the owning node. Nil only while compilation is in flight.
func (oe *ObjectEntry) Node() *Node { return oe.node }

// Command is a synchronous request/response message pair.
type Command struct {
	Name        string
	Description string
	Request     *Message
	Response    *Message
	Visibility  Visibility
}

// Stream is a positional mapping from object entries to a message's payload
// slots. A tx stream's mapping has no nil slots; an rx stream's mapping may
// have holes where the subscriber ignores the publisher's position.
type Stream struct {
	Name        string
	Description string
	Mapping     []*ObjectEntry // positional; nil = unused slot
	Message     *Message
	Visibility  Visibility
}

// ExternCommand is a reference to a command owned by another node.
type ExternCommand struct {
	Owner   string // owning node name
	Command *Command
}

// Node is a compiled bus participant.
type Node struct {
	Name        string
	Description string
	ID          uint16

	// Types is the topologically ordered subset of named types this node
	// transitively references through its messages and object entries.
	Types []Type

	Commands       []*Command
	ExternCommands []ExternCommand
	TxStreams      []*Stream
	RxStreams      []*Stream
	RxMessages     []*Message
	TxMessages     []*Message
	ObjectEntries  []*ObjectEntry
	Buses          []*Bus
}
