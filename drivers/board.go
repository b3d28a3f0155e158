package drivers

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const boardDriverName = "expboard"

const (
	PwmChannelCount = 4
	AdcChannelCount = 4

	DefaultAddress uint8 = 0x10

	MinAddress      = 1
	MaxAddress      = 127
	MinPwmFrequency = 1
	MaxPwmFrequency = 1000
	MinPwmDuty      = 0.0
	MaxPwmDuty      = 99.0

	// AdcFullScale is the divisor used to turn a raw sample into volts.
	AdcFullScale = 4096.0
	AdcReference = 3.3
)

// register map of the board controller
const (
	regSlaveAddr  byte = 0x00
	regPid        byte = 0x01
	regVid        byte = 0x02
	regPwmControl byte = 0x03
	regPwmFreq    byte = 0x04
	regPwmDuty1   byte = 0x06
	regPwmDuty2   byte = 0x08
	regPwmDuty3   byte = 0x0a
	regPwmDuty4   byte = 0x0c
	regAdcControl byte = 0x0e
	regAdcVal1    byte = 0x0f
	regAdcVal2    byte = 0x11
	regAdcVal3    byte = 0x13
	regAdcVal4    byte = 0x15

	registerFileSize = 0x17
)

const (
	defaultPid byte = 0xdf
	defaultVid byte = 0x01
)

const (
	controlDisable byte = 0x00
	controlEnable  byte = 0x01
)

// scanned by Detect, 127 is skipped like the vendor tooling does
const (
	detectFirstAddress uint8 = 1
	detectLastAddress  uint8 = 126
)

// Board is the expansion board controller. It is owned by a single caller,
// methods are not safe for concurrent use.
//
// Begin must succeed before PWM and ADC operations are meaningful.
type Board struct {
	transport Transport
	addr      uint8
	status    Status
	logger    *log.Logger
}

func NewBoard(transport Transport, addr uint8) *Board {
	return &Board{
		transport: transport,
		addr:      addr,
		status:    StatusOK,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "Board: ",
			Level:  log.GetLevel(),
		}),
	}
}

func (b *Board) SetLogger(logger *log.Logger) {
	b.logger = logger
}

func (b *Board) String() string {
	return fmt.Sprintf("%s@0x%02x (%s)", boardDriverName, b.addr, b.transport)
}

func (b *Board) Address() uint8 {
	return b.addr
}

// LastStatus reports the status left by the most recent register access or
// validation. Every call overwrites it.
func (b *Board) LastStatus() Status {
	return b.status
}

func (b *Board) Close() error {
	return b.transport.Close()
}

func (b *Board) fail(status Status, format string, args ...interface{}) error {
	b.status = status
	return errors.Wrapf(status, format, args...)
}

func (b *Board) writeBytes(reg byte, data ...byte) error {
	b.status = StatusErrDeviceNotDetected
	err := b.transport.WriteBlock(b.addr, reg, data)
	if err != nil {
		b.logger.Debug("register write failed", "addr", b.addr, "reg", reg, "err", err)
		return errors.Wrapf(&statusError{status: StatusErrDeviceNotDetected, cause: err},
			"write register 0x%02x at 0x%02x", reg, b.addr)
	}

	b.status = StatusOK
	return nil
}

// readBytes always returns n bytes, zeroed when the transfer failed.
func (b *Board) readBytes(reg byte, n int) ([]byte, error) {
	b.status = StatusErrDeviceNotDetected
	buf := make([]byte, n)
	err := b.transport.ReadBlock(b.addr, reg, buf)
	if err != nil {
		clear(buf)
		b.logger.Debug("register read failed", "addr", b.addr, "reg", reg, "err", err)
		return buf, errors.Wrapf(&statusError{status: StatusErrDeviceNotDetected, cause: err},
			"read register 0x%02x at 0x%02x", reg, b.addr)
	}

	b.status = StatusOK
	return buf, nil
}

func (b *Board) resolve(limit int, c Channels) ([]int, error) {
	ids, err := ResolveChannels(limit, c)
	if err != nil {
		b.status = StatusErrParameter
	}
	return ids, err
}

// Begin checks the product and vendor id and puts PWM and ADC in their
// disabled state.
func (b *Board) Begin() error {
	pid, _ := b.readBytes(regPid, 1)
	vid, err := b.readBytes(regVid, 1)
	if err != nil {
		return err
	}

	if pid[0] != defaultPid {
		return b.fail(StatusErrDeviceNotDetected, "unexpected product id 0x%02x at 0x%02x", pid[0], b.addr)
	}
	if vid[0] != defaultVid {
		return b.fail(StatusErrSoftVersion, "unexpected vendor id 0x%02x at 0x%02x", vid[0], b.addr)
	}

	b.logger.Debug("board found", "addr", b.addr)
	return multierr.Append(b.SetPwmDisable(), b.SetAdcDisable())
}

// SetAddress stores a new bus address in the board. The board has to be power
// cycled before it answers on it.
func (b *Board) SetAddress(addr int) error {
	if addr < MinAddress || addr > MaxAddress {
		return b.fail(StatusErrParameter, "address %d out of range %d..%d", addr, MinAddress, MaxAddress)
	}
	return b.writeBytes(regSlaveAddr, byte(addr))
}

func (b *Board) SetPwmEnable() error {
	return b.writeBytes(regPwmControl, controlEnable)
}

func (b *Board) SetPwmDisable() error {
	return b.writeBytes(regPwmControl, controlDisable)
}

func (b *Board) SetPwmFrequency(freq int) error {
	if freq < MinPwmFrequency || freq > MaxPwmFrequency {
		return b.fail(StatusErrParameter, "pwm frequency %d out of range %d..%d", freq, MinPwmFrequency, MaxPwmFrequency)
	}
	return b.writeBytes(regPwmFreq, byte(freq>>8), byte(freq&0xff))
}

// EncodeDuty packs a duty cycle the way the board firmware expects it:
// whole percent followed by the first decimal digit, anything finer is dropped.
func EncodeDuty(duty float64) (whole, tenths byte) {
	return byte(int(duty)), byte(int(math.Mod(duty*10, 10)))
}

// SetPwmDuty sets duty (percent) on the selected channels. All channels are
// attempted even if one of them fails.
func (b *Board) SetPwmDuty(c Channels, duty float64) (err error) {
	if math.IsNaN(duty) || duty < MinPwmDuty || duty > MaxPwmDuty {
		return b.fail(StatusErrParameter, "pwm duty %.2f out of range %.1f..%.1f", duty, MinPwmDuty, MaxPwmDuty)
	}

	ids, err := b.resolve(PwmChannelCount, c)
	if err != nil {
		return
	}

	whole, tenths := EncodeDuty(duty)
	for _, id := range ids {
		err = multierr.Append(err, b.writeBytes(pwmDutyRegister(id), whole, tenths))
	}
	return
}

func (b *Board) SetAdcEnable() error {
	return b.writeBytes(regAdcControl, controlEnable)
}

func (b *Board) SetAdcDisable() error {
	return b.writeBytes(regAdcControl, controlDisable)
}

// GetAdcValue returns raw 12 bit samples in channel order. A channel whose
// read failed yields 0 and contributes to the returned error.
func (b *Board) GetAdcValue(c Channels) (values []uint16, err error) {
	ids, err := b.resolve(AdcChannelCount, c)
	if err != nil {
		return []uint16{}, err
	}

	values = make([]uint16, 0, len(ids))
	for _, id := range ids {
		raw, readErr := b.readBytes(adcValueRegister(id), 2)
		err = multierr.Append(err, readErr)
		values = append(values, uint16(raw[0])<<8|uint16(raw[1]))
	}
	return
}

// Detect probes every address with Begin and lists the ones answering as a
// board. The configured address is restored afterwards and the status reset.
func (b *Board) Detect() []uint8 {
	found := []uint8{}
	back := b.addr

	for addr := detectFirstAddress; addr <= detectLastAddress; addr++ {
		b.addr = addr
		if err := b.Begin(); err == nil {
			found = append(found, addr)
		}
	}

	b.addr = back
	b.status = StatusOK
	return found
}

// HexAddresses formats addresses as 0x-prefixed hex.
func HexAddresses(addrs []uint8) []string {
	hex := make([]string, len(addrs))
	for i, addr := range addrs {
		hex[i] = fmt.Sprintf("%#x", addr)
	}
	return hex
}

func AdcVoltage(value uint16) float64 {
	return float64(value) / AdcFullScale * AdcReference
}

func pwmDutyRegister(channel int) byte {
	return regPwmDuty1 + byte(channel-1)*2
}

func adcValueRegister(channel int) byte {
	return regAdcVal1 + byte(channel-1)*2
}
