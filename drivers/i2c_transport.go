package drivers

import (
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const DefaultI2cBus = "1"

// I2cTransport talks to the board with register-prefixed block transfers,
// the same framing as SMBus i2c block read/write.
type I2cTransport struct {
	bus     i2c.BusCloser
	busName string
}

// OpenI2c initializes the host drivers and opens the named bus ("1",
// "/dev/i2c-1", "I2C1"; empty picks the first available).
func OpenI2c(busName string) (*I2cTransport, error) {
	_, err := host.Init()
	if err != nil {
		return nil, errors.Wrap(err, "failed to init host drivers")
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open i2c bus %q", busName)
	}

	return NewI2cTransport(bus, busName), nil
}

func NewI2cTransport(bus i2c.BusCloser, busName string) *I2cTransport {
	return &I2cTransport{bus: bus, busName: busName}
}

func (it *I2cTransport) WriteBlock(addr uint8, reg byte, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)

	return it.bus.Tx(uint16(addr), w, nil)
}

func (it *I2cTransport) ReadBlock(addr uint8, reg byte, data []byte) error {
	return it.bus.Tx(uint16(addr), []byte{reg}, data)
}

func (it *I2cTransport) Close() error {
	return it.bus.Close()
}

func (it *I2cTransport) String() string {
	if len(it.busName) == 0 {
		return "i2c"
	}
	return fmt.Sprintf("i2c bus %s", it.busName)
}
