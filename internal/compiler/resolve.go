package compiler

import (
	"github.com/canforge/canforge/internal/builder"
)

// Identifier spaces.
const (
	maxStdID uint32 = 0x7FF
	maxExtID uint32 = 0x1FFF_FFFF
)

// busKey identifies one concrete id on one bus. Standard and extended ids
// occupy separate spaces.
type busKey struct {
	bus      uint32
	raw      uint32
	extended bool
}

// resolveIDsAndBuses mutates the message builders in place so that every
// identifier template becomes concrete and every message has exactly one
// assigned bus.
//
// Fails on: two messages sharing a concrete id on the same bus, an "any id"
// placeholder that cannot be satisfied within its space, and a message
// needing a bus when more than one exists and none was assigned.
func resolveIDsAndBuses(buses []*builder.Bus, messages []*builder.Message) error {
	// Bus assignment first: placeholders allocate per bus.
	for _, msg := range messages {
		if msg.Bus != nil {
			continue
		}
		if len(buses) != 1 {
			return compileErrorf(ErrAmbiguousBus, msg.Name,
				"message needs an explicit bus (%d buses declared)", len(buses))
		}
		msg.Bus = buses[0]
	}

	// Fixed ids claim their slots; duplicates are user errors.
	used := make(map[busKey]string)
	for _, msg := range messages {
		if !msg.ID.Fixed() {
			continue
		}
		key := busKey{bus: msg.Bus.ID, raw: msg.ID.Raw, extended: msg.ID.Kind == builder.IDExt}
		if other, taken := used[key]; taken {
			return compileErrorf(ErrDuplicateID, msg.Name,
				"id %#x on bus %q already used by message %q", msg.ID.Raw, msg.Bus.Name, other)
		}
		used[key] = msg.Name
	}

	// Placeholders allocate the lowest free id in their space, in
	// declaration order.
	for _, msg := range messages {
		if msg.ID.Fixed() {
			continue
		}
		switch msg.ID.Kind {
		case builder.IDAnyStd:
			if !allocate(msg, false, used) {
				return compileErrorf(ErrExhaustedIDSpace, msg.Name,
					"standard id space exhausted on bus %q", msg.Bus.Name)
			}
		case builder.IDAnyExt:
			if !allocate(msg, true, used) {
				return compileErrorf(ErrExhaustedIDSpace, msg.Name,
					"extended id space exhausted on bus %q", msg.Bus.Name)
			}
		case builder.IDAny:
			if !allocate(msg, false, used) && !allocate(msg, true, used) {
				return compileErrorf(ErrExhaustedIDSpace, msg.Name,
					"id spaces exhausted on bus %q", msg.Bus.Name)
			}
		}
	}
	return nil
}

// allocate claims the lowest unused id in the requested space on the
// message's bus and fixes the message's template. Returns false when the
// space is exhausted.
func allocate(msg *builder.Message, extended bool, used map[busKey]string) bool {
	limit := maxStdID
	if extended {
		limit = maxExtID
	}
	for raw := uint32(0); raw <= limit; raw++ {
		key := busKey{bus: msg.Bus.ID, raw: raw, extended: extended}
		if _, taken := used[key]; taken {
			continue
		}
		used[key] = msg.Name
		if extended {
			msg.SetExtID(raw)
		} else {
			msg.SetStdID(raw)
		}
		return true
	}
	return false
}
