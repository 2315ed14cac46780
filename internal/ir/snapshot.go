package ir

import (
	"time"
)

// NetworkSnapshot is the plain, serializable view of a compiled network.
// It is consumed by the CLI output, the golden tests, the snapshot store
// and the fingerprint. All JSON tags use snake_case. Decimal bounds are
// rendered as shortest-form strings so the snapshot stays float-free.
type NetworkSnapshot struct {
	ModelVersion string `json:"model_version"`
	BuildID      string `json:"build_id,omitempty"`
	CompiledAt   string `json:"compiled_at,omitempty"` // RFC 3339
	Fingerprint  string `json:"fingerprint,omitempty"`

	Baudrate uint32            `json:"baudrate"`
	Buses    []BusSnapshot     `json:"buses"`
	Types    []TypeSnapshot    `json:"types"`
	Messages []MessageSnapshot `json:"messages"`
	Nodes    []NodeSnapshot    `json:"nodes"`
	Protocol ProtocolSnapshot  `json:"protocol"`
}

// BusSnapshot is the serializable view of a Bus.
type BusSnapshot struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Baudrate uint32 `json:"baudrate"`
}

// TypeSnapshot is the serializable view of a named type.
type TypeSnapshot struct {
	Name       string              `json:"name"`
	Kind       string              `json:"kind"` // "struct" or "enum"
	Size       int                 `json:"size"` // total bits
	Entries    []EnumEntrySnapshot `json:"entries,omitempty"`
	Attributes []AttributeSnapshot `json:"attributes,omitempty"`
}

// EnumEntrySnapshot is the serializable view of an enum entry.
type EnumEntrySnapshot struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// AttributeSnapshot is the serializable view of a struct attribute.
type AttributeSnapshot struct {
	Name string `json:"name"`
	Type string `json:"type"` // descriptor or declared name
}

// SignalSnapshot is the serializable view of a Signal.
type SignalSnapshot struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Min    string `json:"min,omitempty"` // decimals only
	Max    string `json:"max,omitempty"` // decimals only
}

// UsageSnapshot is the serializable view of a message usage.
type UsageSnapshot struct {
	Kind     string `json:"kind"`
	Command  string `json:"command,omitempty"`
	Stream   string `json:"stream,omitempty"`
	Interval string `json:"interval,omitempty"`
}

// MessageSnapshot is the serializable view of a Message.
type MessageSnapshot struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	ID          string           `json:"id"`
	Extended    bool             `json:"extended"`
	DLC         int              `json:"dlc"`
	Bus         string           `json:"bus"`
	Visibility  string           `json:"visibility"`
	Usage       UsageSnapshot    `json:"usage"`
	Signals     []SignalSnapshot `json:"signals"`
}

// ObjectEntrySnapshot is the serializable view of an ObjectEntry.
type ObjectEntrySnapshot struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Access string `json:"access"`
	Unit   string `json:"unit,omitempty"`
}

// CommandSnapshot is the serializable view of a Command.
type CommandSnapshot struct {
	Name     string `json:"name"`
	Request  string `json:"request"`
	Response string `json:"response"`
}

// ExternCommandSnapshot is the serializable view of an ExternCommand.
type ExternCommandSnapshot struct {
	Owner   string `json:"owner"`
	Command string `json:"command"`
}

// StreamSnapshot is the serializable view of a Stream. Mapping is
// positional; unused slots render as "" so the snapshot stays null-free.
type StreamSnapshot struct {
	Name    string   `json:"name"`
	Message string   `json:"message"`
	Mapping []string `json:"mapping"`
}

// NodeSnapshot is the serializable view of a Node.
type NodeSnapshot struct {
	ID             uint16                  `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description,omitempty"`
	Types          []string                `json:"types"`
	RxMessages     []string                `json:"rx_messages"`
	TxMessages     []string                `json:"tx_messages"`
	ObjectEntries  []ObjectEntrySnapshot   `json:"object_entries"`
	Commands       []CommandSnapshot       `json:"commands"`
	ExternCommands []ExternCommandSnapshot `json:"extern_commands"`
	TxStreams      []StreamSnapshot        `json:"tx_streams"`
	RxStreams      []StreamSnapshot        `json:"rx_streams"`
	Buses          []string                `json:"buses"`
}

// ProtocolSnapshot names the four builtin protocol messages.
type ProtocolSnapshot struct {
	GetReq  string `json:"get_req"`
	GetResp string `json:"get_resp"`
	SetReq  string `json:"set_req"`
	SetResp string `json:"set_resp"`
}

// Snapshot produces the serializable view of the network, including its
// fingerprint. The fingerprint is computed over the deterministic content
// only; build id and timestamp are excluded.
func (n *Network) Snapshot() (NetworkSnapshot, error) {
	snap := NetworkSnapshot{
		ModelVersion: ModelVersion,
		Baudrate:     n.Baudrate,
		Buses:        make([]BusSnapshot, 0, len(n.Buses)),
		Types:        make([]TypeSnapshot, 0, len(n.Types)),
		Messages:     make([]MessageSnapshot, 0, len(n.Messages)),
		Nodes:        make([]NodeSnapshot, 0, len(n.Nodes)),
		Protocol: ProtocolSnapshot{
			GetReq:  n.GetReq.Name,
			GetResp: n.GetResp.Name,
			SetReq:  n.SetReq.Name,
			SetResp: n.SetResp.Name,
		},
	}

	for _, bus := range n.Buses {
		snap.Buses = append(snap.Buses, BusSnapshot{ID: bus.ID, Name: bus.Name, Baudrate: bus.Baudrate})
	}
	for _, ty := range n.Types {
		if ts, ok := snapshotType(ty); ok {
			snap.Types = append(snap.Types, ts)
		}
	}
	for _, msg := range n.Messages {
		snap.Messages = append(snap.Messages, snapshotMessage(msg))
	}
	for _, node := range n.Nodes {
		snap.Nodes = append(snap.Nodes, snapshotNode(node))
	}

	fp, err := fingerprintSnapshot(snap)
	if err != nil {
		return NetworkSnapshot{}, err
	}
	snap.Fingerprint = fp
	snap.BuildID = n.BuildID.String()
	snap.CompiledAt = n.CompiledAt.UTC().Format(time.RFC3339)
	return snap, nil
}

func snapshotType(ty Type) (TypeSnapshot, bool) {
	switch t := ty.(type) {
	case *EnumType:
		ts := TypeSnapshot{Name: t.Name, Kind: "enum", Size: int(t.Size)}
		for _, e := range t.Entries {
			ts.Entries = append(ts.Entries, EnumEntrySnapshot{Name: e.Name, Value: e.Value})
		}
		return ts, true
	case *StructType:
		ts := TypeSnapshot{Name: t.Name, Kind: "struct", Size: BitSize(t)}
		for _, attr := range t.Attributes {
			ts.Attributes = append(ts.Attributes, AttributeSnapshot{Name: attr.Name, Type: attr.Type.TypeName()})
		}
		return ts, true
	default:
		// Anonymous primitives and arrays are not part of the declared
		// type list.
		return TypeSnapshot{}, false
	}
}

func snapshotMessage(m *Message) MessageSnapshot {
	ms := MessageSnapshot{
		Name:        m.Name,
		Description: m.Description,
		ID:          m.ID.String(),
		Extended:    m.ID.Extended,
		DLC:         int(m.DLC),
		Bus:         m.Bus.Name,
		Visibility:  string(m.Visibility),
		Usage:       snapshotUsage(m.Usage()),
		Signals:     make([]SignalSnapshot, 0, len(m.Signals)),
	}
	for _, sig := range m.Signals {
		ss := SignalSnapshot{
			Name:   sig.Name,
			Kind:   string(sig.Type.Kind),
			Offset: sig.Offset,
			Size:   int(sig.Type.Size),
		}
		if sig.Type.Kind == SignalDecimal {
			ss.Min = formatDecimalBound(sig.Type.Offset)
			ss.Max = formatDecimalBound(sig.Type.Max())
		}
		ms.Signals = append(ms.Signals, ss)
	}
	return ms
}

func snapshotUsage(u MessageUsage) UsageSnapshot {
	switch usage := u.(type) {
	case nil:
		return UsageSnapshot{Kind: "unbound"}
	case CommandReqUsage:
		return UsageSnapshot{Kind: usage.UsageKind(), Command: usage.Command.Name}
	case CommandRespUsage:
		return UsageSnapshot{Kind: usage.UsageKind(), Command: usage.Command.Name}
	case StreamUsage:
		return UsageSnapshot{Kind: usage.UsageKind(), Stream: usage.Stream.Name}
	case ExternalUsage:
		return UsageSnapshot{Kind: usage.UsageKind(), Interval: usage.Interval.String()}
	default:
		return UsageSnapshot{Kind: u.UsageKind()}
	}
}

func snapshotNode(n *Node) NodeSnapshot {
	ns := NodeSnapshot{
		ID:             n.ID,
		Name:           n.Name,
		Description:    n.Description,
		Types:          make([]string, 0, len(n.Types)),
		RxMessages:     make([]string, 0, len(n.RxMessages)),
		TxMessages:     make([]string, 0, len(n.TxMessages)),
		ObjectEntries:  make([]ObjectEntrySnapshot, 0, len(n.ObjectEntries)),
		Commands:       make([]CommandSnapshot, 0, len(n.Commands)),
		ExternCommands: make([]ExternCommandSnapshot, 0, len(n.ExternCommands)),
		TxStreams:      make([]StreamSnapshot, 0, len(n.TxStreams)),
		RxStreams:      make([]StreamSnapshot, 0, len(n.RxStreams)),
		Buses:          make([]string, 0, len(n.Buses)),
	}
	for _, ty := range n.Types {
		ns.Types = append(ns.Types, ty.TypeName())
	}
	for _, m := range n.RxMessages {
		ns.RxMessages = append(ns.RxMessages, m.Name)
	}
	for _, m := range n.TxMessages {
		ns.TxMessages = append(ns.TxMessages, m.Name)
	}
	for _, oe := range n.ObjectEntries {
		ns.ObjectEntries = append(ns.ObjectEntries, ObjectEntrySnapshot{
			ID:     oe.ID,
			Name:   oe.Name,
			Type:   oe.Type.TypeName(),
			Access: string(oe.Access),
			Unit:   oe.Unit,
		})
	}
	for _, cmd := range n.Commands {
		ns.Commands = append(ns.Commands, CommandSnapshot{
			Name:     cmd.Name,
			Request:  cmd.Request.Name,
			Response: cmd.Response.Name,
		})
	}
	for _, ext := range n.ExternCommands {
		ns.ExternCommands = append(ns.ExternCommands, ExternCommandSnapshot{
			Owner:   ext.Owner,
			Command: ext.Command.Name,
		})
	}
	for _, st := range n.TxStreams {
		ns.TxStreams = append(ns.TxStreams, snapshotStream(st))
	}
	for _, st := range n.RxStreams {
		ns.RxStreams = append(ns.RxStreams, snapshotStream(st))
	}
	for _, bus := range n.Buses {
		ns.Buses = append(ns.Buses, bus.Name)
	}
	return ns
}

func snapshotStream(s *Stream) StreamSnapshot {
	ss := StreamSnapshot{
		Name:    s.Name,
		Message: s.Message.Name,
		Mapping: make([]string, 0, len(s.Mapping)),
	}
	for _, oe := range s.Mapping {
		if oe == nil {
			ss.Mapping = append(ss.Mapping, "")
		} else {
			ss.Mapping = append(ss.Mapping, oe.Name)
		}
	}
	return ss
}
