package compiler

import (
	"time"

	"github.com/google/uuid"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

// DefaultExternalInterval is assumed for free-running messages that never
// declared an expected interval.
const DefaultExternalInterval = 60 * time.Second

// Compile consumes a builder declaration graph and produces the immutable
// network model, or a single structured error identifying the offending
// declaration. The builder graph is not reusable afterwards: id templates
// and bus assignments are resolved in place.
func Compile(nw *builder.Network) (*ir.Network, error) {
	// At least one bus always exists.
	if len(nw.Buses) == 0 {
		nw.CreateBus("can0")
	}
	baudrate := nw.Baudrate
	if baudrate == 0 {
		baudrate = builder.DefaultBaudrate
	}

	if err := checkUniqueNames(nw); err != nil {
		return nil, err
	}

	buses := make([]*ir.Bus, 0, len(nw.Buses))
	busByID := make(map[uint32]*ir.Bus, len(nw.Buses))
	for _, b := range nw.Buses {
		bus := &ir.Bus{ID: b.ID, Name: b.Name, Baudrate: b.Baudrate}
		buses = append(buses, bus)
		busByID[bus.ID] = bus
	}

	ordered, err := orderTypeDecls(nw.Types)
	if err != nil {
		return nil, err
	}
	types, err := elaborateTypes(ordered)
	if err != nil {
		return nil, err
	}

	if err := resolveIDsAndBuses(nw.Buses, nw.Messages); err != nil {
		return nil, err
	}

	messages := make([]*ir.Message, 0, len(nw.Messages))
	messagesByName := make(map[string]*ir.Message, len(nw.Messages))
	for _, m := range nw.Messages {
		compiled, err := compileMessage(m, types, busByID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, compiled)
		messagesByName[m.Name] = compiled
	}

	lc := &linkContext{
		network:        nw,
		types:          types,
		messagesByName: messagesByName,
		busByID:        busByID,
	}

	getReq := lc.message(nw.GetReq, "protocol")
	getResp := lc.message(nw.GetResp, "protocol")
	setReq := lc.message(nw.SetReq, "protocol")
	setResp := lc.message(nw.SetResp, "protocol")
	getReq.BindUsage(ir.GetReqUsage{})
	getResp.BindUsage(ir.GetRespUsage{})
	setReq.BindUsage(ir.SetReqUsage{})
	setResp.BindUsage(ir.SetRespUsage{})

	nodes, err := linkNodes(lc)
	if err != nil {
		return nil, err
	}

	// Any message still without a role is free-running.
	for i, compiled := range messages {
		if compiled.Usage() != nil {
			continue
		}
		interval := nw.Messages[i].Interval
		if interval == 0 {
			interval = DefaultExternalInterval
		}
		compiled.BindUsage(ir.ExternalUsage{Interval: interval})
	}

	return &ir.Network{
		BuildID:    uuid.New(),
		CompiledAt: time.Now(),
		Baudrate:   baudrate,
		Nodes:      nodes,
		Messages:   messages,
		Types:      types,
		Buses:      buses,
		GetReq:     getReq,
		GetResp:    getResp,
		SetReq:     setReq,
		SetResp:    setResp,
	}, nil
}

// compileMessage resolves the message's bus, flattens its payload and
// derives the byte length. Identifier templates must be concrete by now;
// an unresolved template slipping through resolution is a programming
// fault.
func compileMessage(m *builder.Message, types []ir.Type, busByID map[uint32]*ir.Bus) (*ir.Message, error) {
	if !m.ID.Fixed() {
		integrityFault(m.Name, "unresolved id template reached message compilation")
	}
	if m.Bus == nil {
		integrityFault(m.Name, "no bus assigned after resolution")
	}
	bus, ok := busByID[m.Bus.ID]
	if !ok {
		integrityFault(m.Name, "bus %q was not registered into the network", m.Bus.Name)
	}

	signals, encoding, err := flattenMessage(m, types)
	if err != nil {
		return nil, err
	}

	return &ir.Message{
		Name:        m.Name,
		Description: m.Description,
		ID:          ir.MessageID{Raw: m.ID.Raw, Extended: m.ID.Kind == builder.IDExt},
		DLC:         messageDLC(signals),
		Encoding:    encoding,
		Signals:     signals,
		Bus:         bus,
		Visibility:  m.Visibility,
	}, nil
}

// checkUniqueNames enforces network-wide name uniqueness for types,
// messages and nodes. Unique message names are what make extern-command
// resolution deterministic.
func checkUniqueNames(nw *builder.Network) error {
	typeNames := make(map[string]bool, len(nw.Types))
	for _, decl := range nw.Types {
		if typeNames[decl.DeclName()] {
			return compileErrorf(ErrDuplicateName, decl.DeclName(), "type declared twice")
		}
		typeNames[decl.DeclName()] = true
	}
	messageNames := make(map[string]bool, len(nw.Messages))
	for _, m := range nw.Messages {
		if messageNames[m.Name] {
			return compileErrorf(ErrDuplicateName, m.Name, "message declared twice")
		}
		messageNames[m.Name] = true
	}
	nodeNames := make(map[string]bool, len(nw.Nodes))
	for _, n := range nw.Nodes {
		if nodeNames[n.Name] {
			return compileErrorf(ErrDuplicateName, n.Name, "node declared twice")
		}
		nodeNames[n.Name] = true
	}
	return nil
}
