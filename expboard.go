package expboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hubertat/expboard/drivers"
)

const defaultBoardName = "expboard"
const defaultPwmFrequency = 1000
const defaultPwmDuty = 50.0

// ExpBoard keeps one expansion board configured and samples its ADC.
// It is loaded from the json config file.
type ExpBoard struct {
	Name string

	Bus     string
	Address uint8

	KeepPwmDisabled bool
	PwmFrequency    int
	PwmDuty         *float64
	PwmChannels     []int

	KeepAdcDisabled bool
	AdcChannels     []int

	Debug bool

	FakeBoard *drivers.MockBoard

	board  *drivers.Board
	logger *log.Logger
	ticker *time.Ticker
}

type AdcReading struct {
	Channel int
	Value   uint16
	Voltage float64
}

func channelsOf(ids []int) drivers.Channels {
	if len(ids) == 0 {
		return drivers.All()
	}
	return drivers.Chans(ids...)
}

func (eb *ExpBoard) applyDefaults() {
	if len(eb.Name) == 0 {
		eb.Name = defaultBoardName
	}
	if len(eb.Bus) == 0 {
		eb.Bus = drivers.DefaultI2cBus
	}
	if eb.Address == 0 {
		eb.Address = drivers.DefaultAddress
	}
	if eb.PwmFrequency == 0 {
		eb.PwmFrequency = defaultPwmFrequency
	}
	if eb.PwmDuty == nil {
		duty := defaultPwmDuty
		eb.PwmDuty = &duty
	}
}

func (eb *ExpBoard) initLogger() {
	level := log.GetLevel()
	if eb.Debug {
		level = log.DebugLevel
	}
	eb.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: fmt.Sprintf("%s: ", eb.Name),
		Level:  level,
	})
}

func (eb *ExpBoard) openTransport() (drivers.Transport, error) {
	if eb.FakeBoard != nil {
		return eb.FakeBoard, nil
	}

	transport, err := drivers.OpenI2c(eb.Bus)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open board transport")
	}
	return transport, nil
}

// InitBoard opens the bus and calls Begin every retry interval until the
// board answers or ctx is done.
func (eb *ExpBoard) InitBoard(ctx context.Context, retry time.Duration) error {
	if eb.board != nil {
		return errors.Errorf("board %s already initialized, Close it first", eb.board)
	}

	eb.applyDefaults()
	eb.initLogger()

	transport, err := eb.openTransport()
	if err != nil {
		return err
	}

	eb.board = drivers.NewBoard(transport, eb.Address)
	eb.board.SetLogger(eb.logger.WithPrefix(eb.logger.GetPrefix() + "board: "))

	for {
		err = eb.board.Begin()
		if err == nil {
			break
		}
		eb.logger.Warn("board begin failed", "status", drivers.StatusOf(err), "err", err)

		select {
		case <-ctx.Done():
			closeErr := eb.board.Close()
			eb.board = nil
			if closeErr != nil {
				eb.logger.Error("failed to close transport", "err", closeErr)
			}
			return errors.Wrap(ctx.Err(), "board begin aborted")
		case <-time.After(retry):
		}
	}

	eb.logger.Info("board begin success", "board", eb.board)
	return nil
}

func (eb *ExpBoard) checkReady() error {
	if eb.board == nil {
		return errors.New("board not initialized, call InitBoard first")
	}
	return nil
}

// Configure applies the PWM and ADC settings. PWM output needs the board's
// external power supply to actually drive anything.
func (eb *ExpBoard) Configure() error {
	err := eb.checkReady()
	if err != nil {
		return err
	}

	if eb.KeepPwmDisabled {
		err = eb.board.SetPwmDisable()
	} else {
		err = eb.board.SetPwmEnable()
	}
	if err != nil {
		return errors.Wrap(err, "failed to set pwm control")
	}

	err = eb.board.SetPwmFrequency(eb.PwmFrequency)
	if err != nil {
		return errors.Wrapf(err, "failed to set pwm frequency %d Hz", eb.PwmFrequency)
	}

	err = eb.board.SetPwmDuty(channelsOf(eb.PwmChannels), *eb.PwmDuty)
	if err != nil {
		return errors.Wrapf(err, "failed to set pwm duty %.1f%% on channels %v", *eb.PwmDuty, eb.PwmChannels)
	}

	if eb.KeepAdcDisabled {
		err = eb.board.SetAdcDisable()
	} else {
		err = eb.board.SetAdcEnable()
	}
	if err != nil {
		return errors.Wrap(err, "failed to set adc control")
	}

	eb.logger.Debug("board configured", "freq", eb.PwmFrequency, "duty", *eb.PwmDuty, "pwm", !eb.KeepPwmDisabled, "adc", !eb.KeepAdcDisabled)
	return nil
}

// ReadAdc samples the configured ADC channels. Readings are returned even
// when some channels failed, failed ones read as zero.
func (eb *ExpBoard) ReadAdc() (readings []AdcReading, err error) {
	err = eb.checkReady()
	if err != nil {
		return
	}

	channels := channelsOf(eb.AdcChannels)
	ids, _ := drivers.ResolveChannels(drivers.AdcChannelCount, channels)
	values, err := eb.board.GetAdcValue(channels)
	for i, value := range values {
		readings = append(readings, AdcReading{
			Channel: ids[i],
			Value:   value,
			Voltage: drivers.AdcVoltage(value),
		})
	}
	if err != nil {
		err = errors.Wrap(err, "failed to read adc")
	}
	return
}

func PrintAdcValues(writer io.Writer, readings []AdcReading) {
	fmt.Fprintln(writer, "adc values, 0 - 3.3v, 12bits, max = 4096")
	for _, r := range readings {
		fmt.Fprintf(writer, "channel: %d, value: %d, voltage: %.2fV\n", r.Channel, r.Value, r.Voltage)
	}
	fmt.Fprintln(writer)
}

// StartTicker samples the ADC every interval and prints the readings to
// writer until ctx is done.
func (eb *ExpBoard) StartTicker(ctx context.Context, interval time.Duration, writer io.Writer) error {
	err := eb.checkReady()
	if err != nil {
		return err
	}

	eb.ticker = time.NewTicker(interval)
	defer eb.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-eb.ticker.C:
			readings, err := eb.ReadAdc()
			if err != nil {
				eb.logger.Error("Received error from reading adc", "status", drivers.StatusOf(err), "err", err)
			}
			PrintAdcValues(writer, readings)
		}
	}
}

// Detect scans the bus for boards, the configured address is kept.
func (eb *ExpBoard) Detect() ([]uint8, error) {
	err := eb.checkReady()
	if err != nil {
		return nil, err
	}
	return eb.board.Detect(), nil
}

func (eb *ExpBoard) PrintStatus(writer io.Writer) {
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "=== %s ===\n", eb.Name)
	if eb.board == nil {
		fmt.Fprintln(writer, "| board not initialized")
	} else {
		fmt.Fprintf(writer, "| board: %s\n", eb.board)
		fmt.Fprintf(writer, "| status: %s\n", eb.board.LastStatus())
	}
	fmt.Fprintf(writer, "| pwm: enabled=%v freq=%d Hz duty=%.1f%% channels=%v\n",
		!eb.KeepPwmDisabled, eb.PwmFrequency, dutyOrZero(eb.PwmDuty), resolvedOrRequested(drivers.PwmChannelCount, eb.PwmChannels))
	fmt.Fprintf(writer, "| adc: enabled=%v channels=%v\n",
		!eb.KeepAdcDisabled, resolvedOrRequested(drivers.AdcChannelCount, eb.AdcChannels))
	fmt.Fprintln(writer, "-----------------------------")
	fmt.Fprintln(writer)
}

// resolvedOrRequested shows the channels a selection stands for, invalid
// selections are shown as configured.
func resolvedOrRequested(limit int, ids []int) string {
	resolved, err := drivers.ResolveChannels(limit, channelsOf(ids))
	if err != nil {
		return fmt.Sprintf("%v (invalid)", ids)
	}
	return fmt.Sprint(resolved)
}

func dutyOrZero(duty *float64) float64 {
	if duty == nil {
		return 0
	}
	return *duty
}

// Close disables the outputs and releases the bus.
func (eb *ExpBoard) Close() (err error) {
	if eb.board == nil {
		return
	}

	disableErr := eb.board.SetPwmDisable()
	if disableErr != nil {
		eb.logger.Warn("failed to disable pwm on close", "err", disableErr)
	}

	err = eb.board.Close()
	if err != nil {
		err = errors.Wrap(err, "failed to close board transport")
	}
	eb.board = nil
	return
}
