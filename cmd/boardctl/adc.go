package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubertat/expboard/drivers"
)

var (
	adcChannels []int

	adcCmd = &cobra.Command{
		Use:   "adc",
		Short: "Control and read the ADC inputs",
	}

	adcEnableCmd = &cobra.Command{
		Use:  "enable",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStartedBoard(func(board *drivers.Board) error {
				return board.SetAdcEnable()
			})
		},
	}

	adcDisableCmd = &cobra.Command{
		Use:  "disable",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStartedBoard(func(board *drivers.Board) error {
				return board.SetAdcDisable()
			})
		},
	}

	// Begin disables the ADC, so read enables it again before sampling.
	adcReadCmd = &cobra.Command{
		Use:   "read",
		Short: "Enable the ADC and print one sample per channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStartedBoard(func(board *drivers.Board) error {
				err := board.SetAdcEnable()
				if err != nil {
					return err
				}

				channels := selectChannels(adcChannels)
				ids, _ := drivers.ResolveChannels(drivers.AdcChannelCount, channels)
				values, err := board.GetAdcValue(channels)
				for i, value := range values {
					fmt.Fprintf(cmd.OutOrStdout(), "channel: %d, value: %d, voltage: %.2fV\n", ids[i], value, drivers.AdcVoltage(value))
				}
				return err
			})
		},
	}
)

func init() {
	adcReadCmd.Flags().IntSliceVarP(&adcChannels, "channels", "c", nil, "channels to read (1-4), all when empty")

	adcCmd.AddCommand(adcEnableCmd, adcDisableCmd, adcReadCmd)
}
