package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hubertat/expboard/drivers"
)

var (
	detectCmd = &cobra.Command{
		Use:   "detect",
		Short: "Scan the bus for boards",
		Long:  "Probe every address with the board id check. Found boards get PWM and ADC disabled.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(board *drivers.Board) error {
				found := board.Detect()
				fmt.Fprintln(cmd.OutOrStdout(), "Board list conform:")
				fmt.Fprintln(cmd.OutOrStdout(), drivers.HexAddresses(found))
				return nil
			})
		},
	}

	beginCmd = &cobra.Command{
		Use:   "begin",
		Short: "Check the board and reset PWM and ADC to disabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(func(board *drivers.Board) error {
				err := board.Begin()
				fmt.Fprintf(cmd.OutOrStdout(), "board status: %s\n", board.LastStatus())
				return err
			})
		},
	}

	setAddressCmd = &cobra.Command{
		Use:   "set-address <new address>",
		Short: "Store a new board address, power cycle the board to apply it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newAddr, err := strconv.ParseInt(args[0], 0, 0)
			if err != nil {
				return errors.Wrapf(err, "invalid address %q", args[0])
			}
			return withStartedBoard(func(board *drivers.Board) error {
				err := board.SetAddress(int(newAddr))
				if err != nil {
					return errors.Wrap(err, "set board address failed")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "set board address 0x%02x success, power cycle the board\n", newAddr)
				return nil
			})
		},
	}
)
