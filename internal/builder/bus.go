package builder

// DefaultBaudrate is used for buses and networks that never declare one.
const DefaultBaudrate = 1_000_000

// Bus is a declared CAN bus. IDs are assigned in declaration order.
type Bus struct {
	Name     string
	ID       uint32
	Baudrate uint32
}

// SetBaudrate overrides the bus baud rate.
func (b *Bus) SetBaudrate(rate uint32) {
	b.Baudrate = rate
}
