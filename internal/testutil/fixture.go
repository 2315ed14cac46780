// Package testutil provides shared network fixtures for tests.
package testutil

import (
	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

// DemoNetwork builds a small two-node network exercising every builder
// feature: enums, structs, arrays, decimal signals, fixed and placeholder
// ids, commands, extern commands, object entries, and stream
// subscriptions.
func DemoNetwork() *builder.Network {
	nw := builder.New()
	nw.SetBaudrate(500_000)

	can0 := nw.CreateBus("can0")
	can1 := nw.CreateBus("can1")
	can1.SetBaudrate(250_000)

	state := nw.DefineEnum("motor_state")
	state.AddEntry("idle")
	state.AddEntry("running")
	state.AddEntryWithValue("fault", 10)

	status := nw.DefineStruct("motor_status")
	status.AddAttribute("state", "motor_state")
	status.AddAttribute("rpm", "u16")
	status.AddAttribute("temps", "d8<0..120>[2]")

	statusMsg := nw.CreateMessage("status")
	statusMsg.SetStdID(0x100)
	statusMsg.AssignBus(can0)
	statusMsg.MakeTypeFormat().AddType("motor_status", "report")

	heartbeat := nw.CreateMessage("heartbeat")
	heartbeat.AssignBus(can1)
	heartbeat.MakeSignalFormat().AddSignal("alive", ir.SignalType{
		Kind: ir.SignalUnsigned,
		Size: 1,
	})

	resetReq := nw.CreateMessage("reset_req")
	resetReq.AssignBus(can0)
	resetResp := nw.CreateMessage("reset_resp")
	resetResp.AssignBus(can0)
	resetResp.MakeTypeFormat().AddType("command_resp_erno", "erno")

	// With more than one bus every message needs an explicit assignment,
	// the builtin protocol messages included.
	nw.GetReq.AssignBus(can0)
	nw.GetResp.AssignBus(can0)
	nw.SetReq.AssignBus(can0)
	nw.SetResp.AssignBus(can0)

	streamMsg := nw.CreateMessage("telemetry")
	streamMsg.SetAnyExtID()
	streamMsg.AssignBus(can0)

	motor := nw.CreateNode("motor")
	motor.AddBus(can0)
	motor.AddBus(can1)
	motor.AddTxMessage(statusMsg)
	motor.AddTxMessage(heartbeat)
	motor.AddTxMessage(streamMsg)
	motor.AddRxMessage(resetReq)
	motor.AddTxMessage(resetResp)
	motor.CreateCommand("reset", resetReq, resetResp)

	rpm := motor.CreateObjectEntry("rpm", "u16", ir.AccessReadOnly)
	temp := motor.CreateObjectEntry("temperature", "d8<0..120>", ir.AccessReadOnly)
	temp.SetUnit("C")
	motor.CreateObjectEntry("limit", "u16", ir.AccessReadWrite)

	telemetry := motor.CreateTxStream("telemetry", streamMsg)
	telemetry.AddEntry(rpm)
	telemetry.AddEntry(temp)

	ctrl := nw.CreateNode("controller")
	ctrl.AddBus(can0)
	ctrl.AddTxMessage(resetReq)
	ctrl.AddRxMessage(resetResp)
	ctrl.AddRxMessage(statusMsg)
	ctrl.AddRxMessage(streamMsg)
	ctrl.AddExternCommand(motor.Commands[0])

	mirror := ctrl.CreateObjectEntry("motor_rpm", "u16", ir.AccessWriteOnly)
	sub := ctrl.SubscribeStream(telemetry)
	sub.Map(0, mirror)

	return nw
}
