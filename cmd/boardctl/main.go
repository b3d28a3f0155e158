package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hubertat/expboard/drivers"
)

var (
	busName string
	address uint8
	debug   bool

	rootCmd = &cobra.Command{
		Use:           "boardctl",
		Short:         "Control a DFRobot IO expansion board over i2c",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&busName, "bus", "b", drivers.DefaultI2cBus, "i2c bus name or number")
	rootCmd.PersistentFlags().Uint8VarP(&address, "addr", "a", drivers.DefaultAddress, "board address")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(detectCmd, beginCmd, setAddressCmd, pwmCmd, adcCmd)
}

// withBoard opens the bus, runs fn and releases the bus again.
func withBoard(fn func(board *drivers.Board) error) error {
	transport, err := drivers.OpenI2c(busName)
	if err != nil {
		return err
	}

	board := drivers.NewBoard(transport, address)
	defer board.Close()

	return fn(board)
}

// withStartedBoard is withBoard with a successful Begin first.
func withStartedBoard(fn func(board *drivers.Board) error) error {
	return withBoard(func(board *drivers.Board) error {
		err := board.Begin()
		if err != nil {
			return errors.Wrapf(err, "board begin at 0x%02x failed", address)
		}
		return fn(board)
	})
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "board status: %s\n", drivers.StatusOf(err))
		log.Error("boardctl failed", "err", err)
		os.Exit(1)
	}
}
