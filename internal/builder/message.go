package builder

import (
	"time"

	"github.com/canforge/canforge/internal/ir"
)

// IDKind distinguishes identifier templates. "Any" kinds are symbolic
// placeholders resolved to concrete ids during compilation.
type IDKind int

const (
	// IDAny allocates from the standard space, falling back to extended.
	IDAny IDKind = iota
	// IDAnyStd allocates from the 11-bit standard space.
	IDAnyStd
	// IDAnyExt allocates from the 29-bit extended space.
	IDAnyExt
	// IDStd is a fixed standard identifier.
	IDStd
	// IDExt is a fixed extended identifier.
	IDExt
)

// IDTemplate is a message's identifier declaration. Raw is meaningful for
// the fixed kinds only.
type IDTemplate struct {
	Kind IDKind
	Raw  uint32
}

// Fixed reports whether the template is already concrete.
func (t IDTemplate) Fixed() bool {
	return t.Kind == IDStd || t.Kind == IDExt
}

// TypeField is one typed message field: a type descriptor plus a field
// name.
type TypeField struct {
	Type string
	Name string
}

// TypeFormat declares a typed message payload as an ordered field list.
type TypeFormat struct {
	Fields []TypeField
}

// AddType appends a typed field.
func (f *TypeFormat) AddType(typeDescriptor, fieldName string) {
	f.Fields = append(f.Fields, TypeField{Type: typeDescriptor, Name: fieldName})
}

// RawSignal is a caller-supplied signal for raw-format messages. Offsets
// are assigned by the compiler; any offset implied by declaration order is
// ignored.
type RawSignal struct {
	Name        string
	Description string
	Type        ir.SignalType
}

// SignalFormat declares a raw message payload as an ordered signal list.
type SignalFormat struct {
	Signals []RawSignal
}

// AddSignal appends a raw signal.
func (f *SignalFormat) AddSignal(name string, ty ir.SignalType) {
	f.Signals = append(f.Signals, RawSignal{Name: name, Type: ty})
}

// Message is a declared message. Exactly one of TypeFormat and
// SignalFormat may be non-nil; both nil declares an empty payload.
type Message struct {
	Name        string
	Description string
	ID          IDTemplate
	Bus         *Bus // nil until assigned or resolved

	// Interval is the declared expected interval for free-running
	// messages; zero means undeclared.
	Interval time.Duration

	Visibility ir.Visibility

	TypeFormat   *TypeFormat
	SignalFormat *SignalFormat
}

// MakeTypeFormat switches the message to a typed payload and returns the
// format for field declarations.
func (m *Message) MakeTypeFormat() *TypeFormat {
	m.TypeFormat = &TypeFormat{}
	m.SignalFormat = nil
	return m.TypeFormat
}

// MakeSignalFormat switches the message to a raw-signal payload and
// returns the format for signal declarations.
func (m *Message) MakeSignalFormat() *SignalFormat {
	m.SignalFormat = &SignalFormat{}
	m.TypeFormat = nil
	return m.SignalFormat
}

// SetStdID fixes a standard identifier.
func (m *Message) SetStdID(id uint32) { m.ID = IDTemplate{Kind: IDStd, Raw: id} }

// SetExtID fixes an extended identifier.
func (m *Message) SetExtID(id uint32) { m.ID = IDTemplate{Kind: IDExt, Raw: id} }

// SetAnyStdID requests allocation from the standard space.
func (m *Message) SetAnyStdID() { m.ID = IDTemplate{Kind: IDAnyStd} }

// SetAnyExtID requests allocation from the extended space.
func (m *Message) SetAnyExtID() { m.ID = IDTemplate{Kind: IDAnyExt} }

// AssignBus pins the message to a bus. Without an assignment the message
// needs the network to have exactly one bus.
func (m *Message) AssignBus(b *Bus) { m.Bus = b }

// SetDescription sets the human-readable description.
func (m *Message) SetDescription(d string) { m.Description = d }

// SetInterval declares the expected transmission interval.
func (m *Message) SetInterval(d time.Duration) { m.Interval = d }
