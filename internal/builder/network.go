package builder

import "github.com/canforge/canforge/internal/ir"

// Builtin protocol entity names. The four protocol messages and their
// header types are declared by New on every network.
const (
	GetReqName  = "get_req"
	GetRespName = "get_resp"
	SetReqName  = "set_req"
	SetRespName = "set_resp"
)

// Network is the root of the declaration graph.
type Network struct {
	// Baudrate is the declared network baud rate; zero means undeclared
	// and compiles to DefaultBaudrate.
	Baudrate uint32

	Messages []*Message
	Types    []TypeDecl
	Nodes    []*Node
	Buses    []*Bus

	// The four builtin protocol messages, declared by New.
	GetReq  *Message
	GetResp *Message
	SetReq  *Message
	SetResp *Message
}

// New creates an empty network and declares the builtin object get/set
// protocol: the status enums, the four messages and their header structs.
//
// The sof/eof/toggle header bits support segmented transfer of values wider
// than the 32-bit payload slot; segmentation itself is a runtime concern,
// the compiler only defines the layout.
func New() *Network {
	nw := &Network{}

	getErno := nw.DefineEnum("get_resp_erno")
	getErno.AddEntryWithValue("Success", 0)
	getErno.AddEntryWithValue("Error", 1)

	setErno := nw.DefineEnum("set_resp_erno")
	setErno.AddEntryWithValue("Success", 0)
	setErno.AddEntryWithValue("Error", 1)

	getReq := nw.CreateMessage(GetReqName)
	getReq.Visibility = ir.VisibilityHidden
	getReqHeader := nw.DefineStruct("get_req_header")
	getReqHeader.Visibility = ir.VisibilityHidden
	getReqHeader.AddAttribute("od_index", "u13")
	getReqHeader.AddAttribute("client_id", "u8")
	getReqHeader.AddAttribute("server_id", "u8")
	getReq.MakeTypeFormat().AddType("get_req_header", "header")
	nw.GetReq = getReq

	getResp := nw.CreateMessage(GetRespName)
	getResp.Visibility = ir.VisibilityHidden
	getRespHeader := nw.DefineStruct("get_resp_header")
	getRespHeader.Visibility = ir.VisibilityHidden
	getRespHeader.AddAttribute("sof", "u1")
	getRespHeader.AddAttribute("eof", "u1")
	getRespHeader.AddAttribute("toggle", "u1")
	getRespHeader.AddAttribute("od_index", "u13")
	getRespHeader.AddAttribute("client_id", "u8")
	getRespHeader.AddAttribute("server_id", "u8")
	getRespFormat := getResp.MakeTypeFormat()
	getRespFormat.AddType("get_resp_header", "header")
	getRespFormat.AddType("u32", "data")
	nw.GetResp = getResp

	setReq := nw.CreateMessage(SetReqName)
	setReq.Visibility = ir.VisibilityHidden
	setReqHeader := nw.DefineStruct("set_req_header")
	setReqHeader.Visibility = ir.VisibilityHidden
	setReqHeader.AddAttribute("sof", "u1")
	setReqHeader.AddAttribute("eof", "u1")
	setReqHeader.AddAttribute("toggle", "u1")
	setReqHeader.AddAttribute("od_index", "u13")
	setReqHeader.AddAttribute("client_id", "u8")
	setReqHeader.AddAttribute("server_id", "u8")
	setReqFormat := setReq.MakeTypeFormat()
	setReqFormat.AddType("set_req_header", "header")
	setReqFormat.AddType("u32", "data")
	nw.SetReq = setReq

	setResp := nw.CreateMessage(SetRespName)
	setResp.Visibility = ir.VisibilityHidden
	setRespHeader := nw.DefineStruct("set_resp_header")
	setRespHeader.Visibility = ir.VisibilityHidden
	setRespHeader.AddAttribute("client_id", "u8")
	setRespHeader.AddAttribute("server_id", "u8")
	setRespHeader.AddAttribute("erno", "set_resp_erno")
	setResp.MakeTypeFormat().AddType("set_resp_header", "header")
	nw.SetResp = setResp

	cmdErno := nw.DefineEnum("command_resp_erno")
	cmdErno.AddEntryWithValue("Success", 0)
	cmdErno.AddEntryWithValue("Error", 1)

	return nw
}

// SetBaudrate declares the network baud rate.
func (nw *Network) SetBaudrate(rate uint32) {
	nw.Baudrate = rate
}

// CreateBus declares a bus. IDs follow declaration order.
func (nw *Network) CreateBus(name string) *Bus {
	bus := &Bus{
		Name:     name,
		ID:       uint32(len(nw.Buses)),
		Baudrate: DefaultBaudrate,
	}
	nw.Buses = append(nw.Buses, bus)
	return bus
}

// CreateMessage declares a message with an unconstrained identifier
// template and an empty payload.
func (nw *Network) CreateMessage(name string) *Message {
	msg := &Message{
		Name:       name,
		ID:         IDTemplate{Kind: IDAny},
		Visibility: ir.VisibilityGlobal,
	}
	nw.Messages = append(nw.Messages, msg)
	return msg
}

// DefineEnum declares an enum type.
func (nw *Network) DefineEnum(name string) *Enum {
	e := &Enum{Name: name, Visibility: ir.VisibilityGlobal}
	nw.Types = append(nw.Types, e)
	return e
}

// DefineStruct declares a struct type.
func (nw *Network) DefineStruct(name string) *Struct {
	s := &Struct{Name: name, Visibility: ir.VisibilityGlobal}
	nw.Types = append(nw.Types, s)
	return s
}

// CreateNode declares a node, or returns the existing one with the same
// name.
func (nw *Network) CreateNode(name string) *Node {
	for _, n := range nw.Nodes {
		if n.Name == name {
			return n
		}
	}
	n := &Node{Name: name}
	nw.Nodes = append(nw.Nodes, n)
	return n
}
