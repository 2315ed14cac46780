package ir

import (
	"fmt"
	"time"
)

// MessageID is a fully resolved CAN identifier. No symbolic placeholders
// survive compilation.
type MessageID struct {
	Raw      uint32
	Extended bool
}

func (id MessageID) String() string {
	if id.Extended {
		return fmt.Sprintf("0x%Xx", id.Raw)
	}
	return fmt.Sprintf("0x%X", id.Raw)
}

// MessageUsage is a sealed interface over the closed set of roles a
// compiled message can play. Exactly one usage is bound per message during
// compilation.
type MessageUsage interface {
	irUsage() // sealed

	// UsageKind returns a stable label for dumps and diagnostics.
	UsageKind() string
}

// GetReqUsage marks the builtin object-get request message.
type GetReqUsage struct{}

// GetRespUsage marks the builtin object-get response message.
type GetRespUsage struct{}

// SetReqUsage marks the builtin object-set request message.
type SetReqUsage struct{}

// SetRespUsage marks the builtin object-set response message.
type SetRespUsage struct{}

// CommandReqUsage marks a message as the request half of a command.
type CommandReqUsage struct{ Command *Command }

// CommandRespUsage marks a message as the response half of a command.
type CommandRespUsage struct{ Command *Command }

// StreamUsage marks a message as the carrier of a publish stream.
type StreamUsage struct{ Stream *Stream }

// ExternalUsage marks a free-running message with its expected interval.
type ExternalUsage struct{ Interval time.Duration }

func (GetReqUsage) irUsage()      {}
func (GetRespUsage) irUsage()     {}
func (SetReqUsage) irUsage()      {}
func (SetRespUsage) irUsage()     {}
func (CommandReqUsage) irUsage()  {}
func (CommandRespUsage) irUsage() {}
func (StreamUsage) irUsage()      {}
func (ExternalUsage) irUsage()    {}

func (GetReqUsage) UsageKind() string      { return "get_req" }
func (GetRespUsage) UsageKind() string     { return "get_resp" }
func (SetReqUsage) UsageKind() string      { return "set_req" }
func (SetRespUsage) UsageKind() string     { return "set_resp" }
func (CommandReqUsage) UsageKind() string  { return "command_req" }
func (CommandRespUsage) UsageKind() string { return "command_resp" }
func (StreamUsage) UsageKind() string      { return "stream" }
func (ExternalUsage) UsageKind() string    { return "external" }

// Message is a compiled fixed-frame message: resolved identifier, derived
// byte length, the flat signal table and (for typed formats) the encoding
// tree.
type Message struct {
	Name        string
	Description string
	ID          MessageID
	DLC         uint8

	// Encoding holds the top-level field encodings for typed formats, nil
	// for raw-signal and empty formats.
	Encoding []TypeSignalEncoding

	// Signals is the flat, contiguous, offset-assigned signal table.
	Signals []*Signal

	Bus        *Bus
	Visibility Visibility

	usage MessageUsage // write-once, bound during linking
}

// BindUsage assigns the message's role. It is called exactly once per
// message during compilation; a second call is a programming fault.
func (m *Message) BindUsage(u MessageUsage) {
	if m.usage != nil {
		panic(fmt.Sprintf("ir: usage of message %q bound twice (have %s, new %s)",
			m.Name, m.usage.UsageKind(), u.UsageKind()))
	}
	m.usage = u
}

// Usage returns the bound usage, or nil while compilation is still in
// flight. After a successful build it is never nil.
func (m *Message) Usage() MessageUsage { return m.usage }
