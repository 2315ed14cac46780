// Package loader reads a declarative YAML network description and replays
// it onto the builder API. It is the textual front-end collaborator: the
// compiler core never touches files, only the loader does.
package loader

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/compiler"
	"github.com/canforge/canforge/internal/ir"
)

// Load error codes.
const (
	ErrParse     = "PARSE_ERROR"
	ErrReference = "UNKNOWN_REFERENCE"
	ErrValue     = "INVALID_VALUE"
)

// LoadError is a structured loading error.
type LoadError struct {
	Code    string
	Message string
	Err     error // underlying cause, when any
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Load reads a network description file and builds the declaration graph.
func Load(path string) (*builder.Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrParse, Message: fmt.Sprintf("read %s: %v", path, err), Err: err}
	}
	return Parse(raw)
}

// Parse builds the declaration graph from a YAML network description.
func Parse(raw []byte) (*builder.Network, error) {
	var doc networkDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, loadErrorf(ErrParse, "%v", err)
	}

	nw := builder.New()
	if doc.Baudrate != 0 {
		nw.SetBaudrate(doc.Baudrate)
	}

	buses := make(map[string]*builder.Bus)
	for _, b := range doc.Buses {
		bus := nw.CreateBus(b.Name)
		if b.Baudrate != 0 {
			bus.SetBaudrate(b.Baudrate)
		}
		buses[b.Name] = bus
	}

	for _, t := range doc.Types {
		if err := declareType(nw, t); err != nil {
			return nil, err
		}
	}

	messages := make(map[string]*builder.Message)
	for _, m := range doc.Messages {
		msg, err := declareMessage(nw, m, buses)
		if err != nil {
			return nil, err
		}
		messages[m.Name] = msg
	}

	// Two passes over nodes: declarations first, then the cross-node
	// references (extern commands, rx streams) that need every node's
	// commands and streams declared.
	state := &nodeState{
		objectEntries: make(map[string]map[string]*builder.ObjectEntry),
		commands:      make(map[string]*builder.Command),
		txStreams:     make(map[string]map[string]*builder.TxStream),
	}
	for _, n := range doc.Nodes {
		if err := declareNode(nw, n, buses, messages, state); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.Nodes {
		if err := linkNodeReferences(nw, n, state); err != nil {
			return nil, err
		}
	}
	return nw, nil
}

// nodeState indexes per-node declarations for the reference pass.
type nodeState struct {
	objectEntries map[string]map[string]*builder.ObjectEntry // node -> name -> entry
	commands      map[string]*builder.Command                // command name -> command
	txStreams     map[string]map[string]*builder.TxStream    // node -> name -> stream
}

func declareType(nw *builder.Network, doc typeDoc) error {
	switch {
	case doc.Enum != nil && doc.Struct != nil:
		return loadErrorf(ErrValue, "type entry declares both enum and struct")
	case doc.Enum != nil:
		e := nw.DefineEnum(doc.Enum.Name)
		e.SetDescription(doc.Enum.Description)
		for _, entry := range doc.Enum.Entries {
			if entry.Value != nil {
				e.AddEntryWithValue(entry.Name, *entry.Value)
			} else {
				e.AddEntry(entry.Name)
			}
		}
		return nil
	case doc.Struct != nil:
		s := nw.DefineStruct(doc.Struct.Name)
		s.SetDescription(doc.Struct.Description)
		for _, attr := range doc.Struct.Attributes {
			s.AddAttribute(attr.Name, attr.Type)
		}
		return nil
	default:
		return loadErrorf(ErrValue, "type entry declares neither enum nor struct")
	}
}

func declareMessage(nw *builder.Network, doc messageDoc, buses map[string]*builder.Bus) (*builder.Message, error) {
	msg := nw.CreateMessage(doc.Name)
	msg.SetDescription(doc.Description)

	switch {
	case doc.ID != nil && doc.Extended:
		msg.SetExtID(*doc.ID)
	case doc.ID != nil:
		msg.SetStdID(*doc.ID)
	case doc.IDSpace == "std":
		msg.SetAnyStdID()
	case doc.IDSpace == "ext":
		msg.SetAnyExtID()
	case doc.IDSpace == "" || doc.IDSpace == "any":
		// default template
	default:
		return nil, loadErrorf(ErrValue, "message %q: unknown id space %q", doc.Name, doc.IDSpace)
	}

	if doc.Bus != "" {
		bus, ok := buses[doc.Bus]
		if !ok {
			return nil, loadErrorf(ErrReference, "message %q: unknown bus %q", doc.Name, doc.Bus)
		}
		msg.AssignBus(bus)
	}

	if doc.Interval != "" {
		interval, err := time.ParseDuration(doc.Interval)
		if err != nil {
			return nil, loadErrorf(ErrValue, "message %q: bad interval %q", doc.Name, doc.Interval)
		}
		msg.SetInterval(interval)
	}

	if len(doc.Fields) > 0 && len(doc.Signals) > 0 {
		return nil, loadErrorf(ErrValue, "message %q: fields and signals are mutually exclusive", doc.Name)
	}
	if len(doc.Fields) > 0 {
		format := msg.MakeTypeFormat()
		for _, f := range doc.Fields {
			format.AddType(f.Type, f.Name)
		}
	}
	if len(doc.Signals) > 0 {
		format := msg.MakeSignalFormat()
		for _, s := range doc.Signals {
			ty, err := compiler.ParseSignalType(s.Type)
			if err != nil {
				return nil, loadErrorf(ErrValue, "message %q signal %q: %v", doc.Name, s.Name, err)
			}
			format.AddSignal(s.Name, ty)
		}
	}
	return msg, nil
}

func declareNode(nw *builder.Network, doc nodeDoc, buses map[string]*builder.Bus, messages map[string]*builder.Message, state *nodeState) error {
	node := nw.CreateNode(doc.Name)
	node.SetDescription(doc.Description)

	for _, name := range doc.Buses {
		bus, ok := buses[name]
		if !ok {
			return loadErrorf(ErrReference, "node %q: unknown bus %q", doc.Name, name)
		}
		node.AddBus(bus)
	}
	for _, name := range doc.Tx {
		msg, ok := messages[name]
		if !ok {
			return loadErrorf(ErrReference, "node %q: unknown tx message %q", doc.Name, name)
		}
		node.AddTxMessage(msg)
	}
	for _, name := range doc.Rx {
		msg, ok := messages[name]
		if !ok {
			return loadErrorf(ErrReference, "node %q: unknown rx message %q", doc.Name, name)
		}
		node.AddRxMessage(msg)
	}

	entries := make(map[string]*builder.ObjectEntry)
	for _, oeDoc := range doc.ObjectEntries {
		access, err := parseAccess(oeDoc.Access)
		if err != nil {
			return loadErrorf(ErrValue, "node %q object entry %q: %v", doc.Name, oeDoc.Name, err)
		}
		oe := node.CreateObjectEntry(oeDoc.Name, oeDoc.Type, access)
		oe.SetUnit(oeDoc.Unit)
		oe.SetDescription(oeDoc.Description)
		entries[oeDoc.Name] = oe
	}
	state.objectEntries[doc.Name] = entries

	for _, cmdDoc := range doc.Commands {
		request, ok := messages[cmdDoc.Request]
		if !ok {
			return loadErrorf(ErrReference, "command %q: unknown request message %q", cmdDoc.Name, cmdDoc.Request)
		}
		response, ok := messages[cmdDoc.Response]
		if !ok {
			return loadErrorf(ErrReference, "command %q: unknown response message %q", cmdDoc.Name, cmdDoc.Response)
		}
		cmd := node.CreateCommand(cmdDoc.Name, request, response)
		cmd.SetDescription(cmdDoc.Description)
		if _, dup := state.commands[cmdDoc.Name]; dup {
			return loadErrorf(ErrValue, "command %q declared twice", cmdDoc.Name)
		}
		state.commands[cmdDoc.Name] = cmd
	}

	streams := make(map[string]*builder.TxStream)
	for _, streamDoc := range doc.TxStreams {
		carrier, ok := messages[streamDoc.Message]
		if !ok {
			return loadErrorf(ErrReference, "stream %q: unknown message %q", streamDoc.Name, streamDoc.Message)
		}
		stream := node.CreateTxStream(streamDoc.Name, carrier)
		for _, entryName := range streamDoc.Entries {
			oe, ok := entries[entryName]
			if !ok {
				return loadErrorf(ErrReference, "stream %q: unknown object entry %q", streamDoc.Name, entryName)
			}
			stream.AddEntry(oe)
		}
		streams[streamDoc.Name] = stream
	}
	state.txStreams[doc.Name] = streams
	return nil
}

// linkNodeReferences resolves extern commands and rx streams, which may
// point at nodes declared later in the document.
func linkNodeReferences(nw *builder.Network, doc nodeDoc, state *nodeState) error {
	node := nw.CreateNode(doc.Name)

	for _, name := range doc.ExternCommands {
		cmd, ok := state.commands[name]
		if !ok {
			return loadErrorf(ErrReference, "node %q: unknown extern command %q", doc.Name, name)
		}
		node.AddExternCommand(cmd)
	}

	for _, rxDoc := range doc.RxStreams {
		publisherStreams, ok := state.txStreams[rxDoc.Node]
		if !ok {
			return loadErrorf(ErrReference, "node %q: unknown publisher node %q", doc.Name, rxDoc.Node)
		}
		stream, ok := publisherStreams[rxDoc.Stream]
		if !ok {
			return loadErrorf(ErrReference, "node %q: unknown stream %q on node %q", doc.Name, rxDoc.Stream, rxDoc.Node)
		}
		rx := node.SubscribeStream(stream)
		for position, entryName := range rxDoc.Map {
			oe, ok := state.objectEntries[doc.Name][entryName]
			if !ok {
				return loadErrorf(ErrReference, "node %q: unknown object entry %q in rx stream mapping", doc.Name, entryName)
			}
			rx.Map(position, oe)
		}
	}
	return nil
}

func parseAccess(s string) (ir.ObjectAccess, error) {
	switch s {
	case "read":
		return ir.AccessReadOnly, nil
	case "write":
		return ir.AccessWriteOnly, nil
	case "read_write", "":
		return ir.AccessReadWrite, nil
	default:
		return "", fmt.Errorf("unknown access mode %q", s)
	}
}
