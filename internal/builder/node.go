package builder

import "github.com/canforge/canforge/internal/ir"

// Command declares a synchronous request/response pair owned by a node.
type Command struct {
	Name        string
	Description string
	Request     *Message
	Response    *Message
	Visibility  ir.Visibility
}

// SetDescription sets the human-readable description.
func (c *Command) SetDescription(d string) { c.Description = d }

// ObjectEntry declares a node-local addressable value. The sequential id
// is assigned during compilation from declaration order.
type ObjectEntry struct {
	Name        string
	Description string
	Unit        string
	Type        string // type descriptor
	Access      ir.ObjectAccess
	Visibility  ir.Visibility
}

// SetUnit sets the physical unit.
func (oe *ObjectEntry) SetUnit(u string) { oe.Unit = u }

// SetDescription sets the human-readable description.
func (oe *ObjectEntry) SetDescription(d string) { oe.Description = d }

// TxStream declares a publish stream: the publisher's object entries mapped
// positionally onto a carrier message. Every position must be filled.
type TxStream struct {
	Name        string
	Description string
	Message     *Message
	Entries     []*ObjectEntry
	Node        *Node // publisher
	Visibility  ir.Visibility
}

// AddEntry appends the next positional object entry.
func (s *TxStream) AddEntry(oe *ObjectEntry) {
	s.Entries = append(s.Entries, oe)
}

// RxMapping binds one publisher position to a subscriber-local object
// entry.
type RxMapping struct {
	Position int
	Entry    *ObjectEntry
}

// RxStream declares a sparse subscription to another node's tx stream.
// Mappings may be declared in any order; unmapped publisher positions
// become holes.
type RxStream struct {
	Stream     *TxStream // the publisher's stream
	Node       *Node     // subscriber
	Mappings   []RxMapping
	Visibility ir.Visibility
}

// Map binds a publisher position to a local object entry.
func (s *RxStream) Map(position int, oe *ObjectEntry) {
	s.Mappings = append(s.Mappings, RxMapping{Position: position, Entry: oe})
}

// Node is a declared bus participant.
type Node struct {
	Name        string
	Description string

	RxMessages     []*Message
	TxMessages     []*Message
	Commands       []*Command
	ExternCommands []*Command
	ObjectEntries  []*ObjectEntry
	TxStreams      []*TxStream
	RxStreams      []*RxStream
	Buses          []*Bus
}

// SetDescription sets the human-readable description.
func (n *Node) SetDescription(d string) { n.Description = d }

// AddRxMessage declares that the node receives the message.
func (n *Node) AddRxMessage(m *Message) {
	n.RxMessages = append(n.RxMessages, m)
}

// AddTxMessage declares that the node transmits the message.
func (n *Node) AddTxMessage(m *Message) {
	n.TxMessages = append(n.TxMessages, m)
}

// AddBus attaches the node to a bus.
func (n *Node) AddBus(b *Bus) {
	n.Buses = append(n.Buses, b)
}

// CreateCommand declares a command owned by this node. Request and
// response messages must be registered with the network separately.
func (n *Node) CreateCommand(name string, request, response *Message) *Command {
	cmd := &Command{
		Name:       name,
		Request:    request,
		Response:   response,
		Visibility: ir.VisibilityGlobal,
	}
	n.Commands = append(n.Commands, cmd)
	return cmd
}

// AddExternCommand declares that this node calls a command owned by
// another node. The owner is resolved during compilation by the command's
// request message name.
func (n *Node) AddExternCommand(c *Command) {
	n.ExternCommands = append(n.ExternCommands, c)
}

// CreateObjectEntry declares a node-local addressable value.
func (n *Node) CreateObjectEntry(name, typeDescriptor string, access ir.ObjectAccess) *ObjectEntry {
	oe := &ObjectEntry{
		Name:       name,
		Type:       typeDescriptor,
		Access:     access,
		Visibility: ir.VisibilityGlobal,
	}
	n.ObjectEntries = append(n.ObjectEntries, oe)
	return oe
}

// CreateTxStream declares a publish stream carried by the given message.
func (n *Node) CreateTxStream(name string, carrier *Message) *TxStream {
	s := &TxStream{
		Name:       name,
		Message:    carrier,
		Node:       n,
		Visibility: ir.VisibilityGlobal,
	}
	n.TxStreams = append(n.TxStreams, s)
	return s
}

// SubscribeStream declares a sparse subscription to another node's tx
// stream.
func (n *Node) SubscribeStream(publisher *TxStream) *RxStream {
	s := &RxStream{
		Stream:     publisher,
		Node:       n,
		Visibility: ir.VisibilityGlobal,
	}
	n.RxStreams = append(n.RxStreams, s)
	return s
}
