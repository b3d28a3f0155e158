package drivers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestI2cTransportFraming(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x10, W: []byte{regPwmFreq, 0x03, 0xe8}},
			{Addr: 0x10, W: []byte{regAdcVal1}, R: []byte{0x0f, 0xa0}},
		},
	}
	it := NewI2cTransport(bus, "1")

	err := it.WriteBlock(0x10, regPwmFreq, []byte{0x03, 0xe8})
	if err != nil {
		t.Errorf("WriteBlock returned error: %v", err)
	}

	got := make([]byte, 2)
	err = it.ReadBlock(0x10, regAdcVal1, got)
	if err != nil {
		t.Errorf("ReadBlock returned error: %v", err)
	}
	if diff := cmp.Diff([]byte{0x0f, 0xa0}, got); diff != "" {
		t.Errorf("read mismatch (-want +got):\n%s", diff)
	}

	if err := it.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestBoardOverI2c(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x10, W: []byte{regPid}, R: []byte{defaultPid}},
			{Addr: 0x10, W: []byte{regVid}, R: []byte{defaultVid}},
			{Addr: 0x10, W: []byte{regPwmControl, 0x00}},
			{Addr: 0x10, W: []byte{regAdcControl, 0x00}},
			{Addr: 0x10, W: []byte{regPwmDuty3, 37, 4}},
			{Addr: 0x10, W: []byte{regAdcVal2}, R: []byte{0x01, 0x02}},
		},
	}
	board := NewBoard(NewI2cTransport(bus, "1"), 0x10)

	if err := board.Begin(); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if err := board.SetPwmDuty(Chans(Channel3), 37.46); err != nil {
		t.Errorf("SetPwmDuty returned error: %v", err)
	}
	values, err := board.GetAdcValue(Chans(Channel2))
	if err != nil {
		t.Errorf("GetAdcValue returned error: %v", err)
	}
	if diff := cmp.Diff([]uint16{0x0102}, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	if err := board.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestBoardOverI2cNack(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	board := NewBoard(NewI2cTransport(bus, "1"), 0x10)

	values, err := board.GetAdcValue(Chans(Channel1))
	assertStatus(t, StatusOf(err), StatusErrDeviceNotDetected)
	if diff := cmp.Diff([]uint16{0}, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestI2cTransportString(t *testing.T) {
	bus := &i2ctest.Playback{}

	got := NewI2cTransport(bus, "1").String()
	want := "i2c bus 1"
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}

	got = NewI2cTransport(bus, "").String()
	want = "i2c"
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}
}
