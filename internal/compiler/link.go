package compiler

import (
	"sort"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

// linkContext carries the compiled entity sets the linker resolves against.
type linkContext struct {
	network        *builder.Network
	types          []ir.Type
	messagesByName map[string]*ir.Message
	busByID        map[uint32]*ir.Bus
}

// message resolves a builder message against the compiled set. A miss
// means the message was declared but never registered into the network:
// builder misuse, not a data error.
func (lc *linkContext) message(m *builder.Message, context string) *ir.Message {
	compiled, ok := lc.messagesByName[m.Name]
	if !ok {
		integrityFault(context, "message %q was not registered into the network", m.Name)
	}
	return compiled
}

// linkNodes resolves every node in two phases: tx-side linking (messages,
// type closures, commands, object entries, tx streams) across all nodes
// first, then the cross-node references (extern commands, rx streams) that
// need all publishers fully constructed.
func linkNodes(lc *linkContext) ([]*ir.Node, error) {
	nodes := make([]*ir.Node, 0, len(lc.network.Nodes))
	for i, decl := range lc.network.Nodes {
		node, err := linkNode(lc, decl, uint16(i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	for i, decl := range lc.network.Nodes {
		linkExternCommands(decl, nodes, i)
		linkRxStreams(lc, decl, nodes, i)
	}

	// Back-references go in last, once per entry, after every node is
	// final.
	for _, node := range nodes {
		for _, oe := range node.ObjectEntries {
			oe.BindNode(node)
		}
	}
	return nodes, nil
}

func linkNode(lc *linkContext, decl *builder.Node, id uint16) (*ir.Node, error) {
	node := &ir.Node{
		Name:        decl.Name,
		Description: decl.Description,
		ID:          id,
	}
	closure := newTypeClosure()

	for _, m := range decl.RxMessages {
		compiled := lc.message(m, decl.Name)
		closure.addEncodings(compiled.Encoding)
		node.RxMessages = append(node.RxMessages, compiled)
	}
	for _, m := range decl.TxMessages {
		compiled := lc.message(m, decl.Name)
		closure.addEncodings(compiled.Encoding)
		node.TxMessages = append(node.TxMessages, compiled)
	}

	for _, c := range decl.Commands {
		request := lc.message(c.Request, decl.Name)
		response := lc.message(c.Response, decl.Name)
		cmd := &ir.Command{
			Name:        c.Name,
			Description: c.Description,
			Request:     request,
			Response:    response,
			Visibility:  c.Visibility,
		}
		request.BindUsage(ir.CommandReqUsage{Command: cmd})
		response.BindUsage(ir.CommandRespUsage{Command: cmd})
		node.Commands = append(node.Commands, cmd)
	}

	for i, oeDecl := range decl.ObjectEntries {
		ty, err := resolveType(lc.types, oeDecl.Type)
		if err != nil {
			return nil, err
		}
		closure.addType(ty)
		node.ObjectEntries = append(node.ObjectEntries, &ir.ObjectEntry{
			Name:        oeDecl.Name,
			Description: oeDecl.Description,
			Unit:        oeDecl.Unit,
			ID:          uint32(i),
			Type:        ty,
			Access:      oeDecl.Access,
			Visibility:  oeDecl.Visibility,
		})
	}

	for _, streamDecl := range decl.TxStreams {
		carrier := lc.message(streamDecl.Message, decl.Name)
		mapping := make([]*ir.ObjectEntry, 0, len(streamDecl.Entries))
		for _, entry := range streamDecl.Entries {
			mapping = append(mapping, objectEntryByName(node, entry.Name, streamDecl.Name))
		}
		stream := &ir.Stream{
			Name:        streamDecl.Name,
			Description: streamDecl.Description,
			Mapping:     mapping,
			Message:     carrier,
			Visibility:  streamDecl.Visibility,
		}
		carrier.BindUsage(ir.StreamUsage{Stream: stream})
		node.TxStreams = append(node.TxStreams, stream)
	}

	node.Types = orderTypes(closure.types)

	for _, b := range decl.Buses {
		bus, ok := lc.busByID[b.ID]
		if !ok {
			integrityFault(decl.Name, "bus %q was not registered into the network", b.Name)
		}
		node.Buses = append(node.Buses, bus)
	}
	return node, nil
}

// linkExternCommands resolves a node's references to commands owned by
// other nodes by scanning for a command whose request message name matches.
// Message names are unique network-wide, so the scan is deterministic.
func linkExternCommands(decl *builder.Node, nodes []*ir.Node, self int) {
	for _, ext := range decl.ExternCommands {
		found := false
	scan:
		for j, other := range nodes {
			if j == self {
				continue
			}
			for _, cmd := range other.Commands {
				if cmd.Request.Name == ext.Request.Name {
					nodes[self].ExternCommands = append(nodes[self].ExternCommands, ir.ExternCommand{
						Owner:   other.Name,
						Command: cmd,
					})
					found = true
					break scan
				}
			}
		}
		if !found {
			integrityFault(decl.Name, "extern command %q owned by no other node", ext.Name)
		}
	}
}

// linkRxStreams resolves sparse subscriptions against the publishers'
// already-built tx streams. This phase runs strictly after all nodes'
// tx-side linking.
func linkRxStreams(lc *linkContext, decl *builder.Node, nodes []*ir.Node, self int) {
	subscriber := nodes[self]
	for _, rx := range decl.RxStreams {
		publisher := nodeByName(nodes, rx.Stream.Node.Name, decl.Name)
		txStream := txStreamByName(publisher, rx.Stream.Name, decl.Name)
		arity := len(txStream.Mapping)

		ordered := append([]builder.RxMapping(nil), rx.Mappings...)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Position < ordered[j].Position
		})

		// Walk every publisher position; emit the mapped local entry at
		// each requested position and a hole everywhere else, so the
		// result stays positionally aligned with the publisher's wire
		// encoding.
		mapping := make([]*ir.ObjectEntry, 0, arity)
		next := 0
		for pos := 0; pos < arity; pos++ {
			if next < len(ordered) && ordered[next].Position == pos {
				mapping = append(mapping, objectEntryByName(subscriber, ordered[next].Entry.Name, rx.Stream.Name))
				next++
			} else {
				mapping = append(mapping, nil)
			}
		}
		if next < len(ordered) {
			integrityFault(decl.Name, "rx stream %q maps position %d beyond publisher arity %d",
				rx.Stream.Name, ordered[next].Position, arity)
		}

		subscriber.RxStreams = append(subscriber.RxStreams, &ir.Stream{
			Name:        txStream.Name,
			Description: txStream.Description,
			Mapping:     mapping,
			Message:     txStream.Message,
			Visibility:  rx.Visibility,
		})
	}
}

func nodeByName(nodes []*ir.Node, name, context string) *ir.Node {
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
	}
	integrityFault(context, "node %q was not registered into the network", name)
	return nil
}

func txStreamByName(node *ir.Node, name, context string) *ir.Stream {
	for _, s := range node.TxStreams {
		if s.Name == name {
			return s
		}
	}
	integrityFault(context, "tx stream %q not found on node %q", name, node.Name)
	return nil
}

func objectEntryByName(node *ir.Node, name, context string) *ir.ObjectEntry {
	for _, oe := range node.ObjectEntries {
		if oe.Name == name {
			return oe
		}
	}
	integrityFault(context, "object entry %q not found on node %q", name, node.Name)
	return nil
}

// typeClosure accumulates the named types a node transitively references,
// deduplicated by identity, in first-seen order.
type typeClosure struct {
	seen  map[ir.Type]bool
	types []ir.Type
}

func newTypeClosure() *typeClosure {
	return &typeClosure{seen: make(map[ir.Type]bool)}
}

// addType records every named type reachable from ty.
func (tc *typeClosure) addType(ty ir.Type) {
	switch t := ty.(type) {
	case *ir.PrimitiveType:
		// anonymous, never part of the closure
	case *ir.EnumType:
		tc.record(ty)
	case *ir.StructType:
		if tc.record(ty) {
			for _, attr := range t.Attributes {
				tc.addType(attr.Type)
			}
		}
	case *ir.ArrayType:
		tc.addType(t.Elem)
	}
}

// addEncodings records every named type referenced by an encoding tree.
func (tc *typeClosure) addEncodings(encodings []ir.TypeSignalEncoding) {
	for _, enc := range encodings {
		tc.addType(enc.Of())
	}
}

func (tc *typeClosure) record(ty ir.Type) bool {
	if tc.seen[ty] {
		return false
	}
	tc.seen[ty] = true
	tc.types = append(tc.types, ty)
	return true
}
