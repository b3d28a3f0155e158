package drivers

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const mockTransportName = "mock"

// BlockOp is one transfer seen by the MockBoard.
type BlockOp struct {
	Read bool
	Addr uint8
	Reg  byte
	Data []byte
}

// MockBoard simulates a board behind a Transport. It answers on a single
// address and keeps the board's register file in memory.
type MockBoard struct {
	// Fail makes every transfer fail as if nothing answered on the bus.
	Fail bool

	Ops []BlockOp

	addr      uint8
	registers [registerFileSize]byte

	writeTo      io.Writer
	monitorWrite bool
}

func NewMockBoard(addr uint8) *MockBoard {
	mb := &MockBoard{addr: addr}
	mb.registers[regSlaveAddr] = addr
	mb.registers[regPid] = defaultPid
	mb.registers[regVid] = defaultVid
	return mb
}

// SetIds overrides the product and vendor id reported by the board.
func (mb *MockBoard) SetIds(pid, vid byte) {
	mb.registers[regPid] = pid
	mb.registers[regVid] = vid
}

// SetAdcRaw presets the sample returned for an ADC channel (1..4).
func (mb *MockBoard) SetAdcRaw(channel int, value uint16) {
	reg := adcValueRegister(channel)
	mb.registers[reg] = byte(value >> 8)
	mb.registers[reg+1] = byte(value)
}

// PowerCycle makes a previously written slave address effective.
func (mb *MockBoard) PowerCycle() {
	mb.addr = mb.registers[regSlaveAddr]
	mb.registers[regPwmControl] = controlDisable
	mb.registers[regAdcControl] = controlDisable
}

func (mb *MockBoard) Address() uint8 {
	return mb.addr
}

func (mb *MockBoard) Register(reg byte) byte {
	return mb.registers[reg]
}

func (mb *MockBoard) PwmEnabled() bool {
	return mb.registers[regPwmControl] == controlEnable
}

func (mb *MockBoard) AdcEnabled() bool {
	return mb.registers[regAdcControl] == controlEnable
}

func (mb *MockBoard) PwmFrequency() int {
	return int(mb.registers[regPwmFreq])<<8 | int(mb.registers[regPwmFreq+1])
}

func (mb *MockBoard) PwmDuty(channel int) (whole, tenths byte) {
	reg := pwmDutyRegister(channel)
	return mb.registers[reg], mb.registers[reg+1]
}

// Writes returns the recorded write transfers.
func (mb *MockBoard) Writes() (writes []BlockOp) {
	for _, op := range mb.Ops {
		if !op.Read {
			writes = append(writes, op)
		}
	}
	return
}

func (mb *MockBoard) MonitorWrites(writer io.Writer) {
	mb.writeTo = writer
	mb.monitorWrite = true
}

func (mb *MockBoard) check(addr uint8, reg byte, length int) error {
	if mb.Fail {
		return errors.New("mock bus failure")
	}
	if addr != mb.addr {
		return errors.Errorf("no ack from address 0x%02x", addr)
	}
	if int(reg)+length > registerFileSize {
		return errors.Errorf("register block 0x%02x+%d out of range", reg, length)
	}
	return nil
}

func (mb *MockBoard) WriteBlock(addr uint8, reg byte, data []byte) error {
	mb.Ops = append(mb.Ops, BlockOp{Addr: addr, Reg: reg, Data: append([]byte{}, data...)})

	err := mb.check(addr, reg, len(data))
	if err != nil {
		return err
	}

	switch {
	case reg == regPid || reg == regVid:
		return errors.Errorf("register 0x%02x is read only", reg)
	case reg >= regAdcVal1:
		return errors.Errorf("register 0x%02x is read only", reg)
	}

	copy(mb.registers[reg:], data)
	if mb.monitorWrite {
		fmt.Fprintf(mb.writeTo, "[0x%02x] reg 0x%02x <- % x\n", addr, reg, data)
	}
	return nil
}

// ReadBlock serves the register file. ADC samples read as zero while the
// ADC is disabled.
func (mb *MockBoard) ReadBlock(addr uint8, reg byte, data []byte) error {
	op := BlockOp{Read: true, Addr: addr, Reg: reg}
	defer func() {
		mb.Ops = append(mb.Ops, op)
	}()

	err := mb.check(addr, reg, len(data))
	if err != nil {
		return err
	}

	copy(data, mb.registers[int(reg):int(reg)+len(data)])
	if reg >= regAdcVal1 && !mb.AdcEnabled() {
		clear(data)
	}
	op.Data = append([]byte{}, data...)
	return nil
}

func (mb *MockBoard) Close() error {
	return nil
}

func (mb *MockBoard) String() string {
	return mockTransportName
}
