package drivers

// Transport moves register blocks between the host and a board.
// Implementations report failures as plain errors; the Board maps them to
// StatusErrDeviceNotDetected.
type Transport interface {
	WriteBlock(addr uint8, reg byte, data []byte) error
	// ReadBlock fills data with len(data) bytes starting at reg.
	ReadBlock(addr uint8, reg byte, data []byte) error
	Close() error
	String() string
}
