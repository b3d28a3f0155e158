package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hubertat/expboard/drivers"
)

var (
	pwmChannels []int

	pwmCmd = &cobra.Command{
		Use:   "pwm",
		Short: "Control the PWM outputs (they need the board's external power supply)",
	}

	pwmEnableCmd = &cobra.Command{
		Use:  "enable",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStartedBoard(func(board *drivers.Board) error {
				return board.SetPwmEnable()
			})
		},
	}

	pwmDisableCmd = &cobra.Command{
		Use:  "disable",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStartedBoard(func(board *drivers.Board) error {
				return board.SetPwmDisable()
			})
		},
	}

	pwmFreqCmd = &cobra.Command{
		Use:   "freq <hz>",
		Short: "Set the PWM frequency, 1 - 1000 Hz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid frequency %q", args[0])
			}
			return withStartedBoard(func(board *drivers.Board) error {
				return board.SetPwmFrequency(freq)
			})
		},
	}

	pwmDutyCmd = &cobra.Command{
		Use:   "duty <percent>",
		Short: "Set the duty cycle, 0.0 - 99.0, one decimal digit is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duty, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.Wrapf(err, "invalid duty %q", args[0])
			}
			return withStartedBoard(func(board *drivers.Board) error {
				err := board.SetPwmDuty(selectChannels(pwmChannels), duty)
				if err != nil {
					return err
				}
				whole, tenths := drivers.EncodeDuty(duty)
				fmt.Fprintf(cmd.OutOrStdout(), "duty set to %d.%d%%\n", whole, tenths)
				return nil
			})
		},
	}
)

func selectChannels(ids []int) drivers.Channels {
	if len(ids) == 0 {
		return drivers.All()
	}
	return drivers.Chans(ids...)
}

func init() {
	pwmDutyCmd.Flags().IntSliceVarP(&pwmChannels, "channels", "c", nil, "channels to set (1-4), all when empty")

	pwmCmd.AddCommand(pwmEnableCmd, pwmDisableCmd, pwmFreqCmd, pwmDutyCmd)
}
