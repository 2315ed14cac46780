package ir

// Bus is a physical CAN bus. At least one bus always exists in a compiled
// network; the compiler synthesizes a default if none was declared.
type Bus struct {
	ID       uint32
	Name     string
	Baudrate uint32
}
