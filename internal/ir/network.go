package ir

import (
	"time"

	"github.com/google/uuid"
)

// Network is the immutable root of a compiled model.
type Network struct {
	BuildID    uuid.UUID
	CompiledAt time.Time
	Baudrate   uint32

	Nodes    []*Node
	Messages []*Message
	Types    []Type
	Buses    []*Bus

	// The four builtin protocol messages, also present in Messages.
	GetReq  *Message
	GetResp *Message
	SetReq  *Message
	SetResp *Message
}

// MessageByName returns the compiled message with the given name, or nil.
func (n *Network) MessageByName(name string) *Message {
	for _, m := range n.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// NodeByName returns the compiled node with the given name, or nil.
func (n *Network) NodeByName(name string) *Node {
	for _, node := range n.Nodes {
		if node.Name == name {
			return node
		}
	}
	return nil
}
