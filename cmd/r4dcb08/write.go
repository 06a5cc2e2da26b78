package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/r4dcb08"
)

var setCorrectionCmd = &cobra.Command{
	Use:   "set-correction CHANNEL VALUE",
	Short: "Set temperature correction for a channel",
	Long: `Write the correction register of CHANNEL (0x0008 + CHANNEL).

VALUE is in °C, between -327.6 and +327.6, and is rounded to the nearest 0.1 °C.
The device adds the correction to subsequent readings of the channel.
A negative VALUE is accepted as is; a CHANNEL starting with "-" needs "--".`,
	Example: `  r4dcb08 -p /dev/ttyUSB0 set-correction 3 1.5
  r4dcb08 -p /dev/ttyUSB0 set-correction 3 -0.8`,
	Args: cobra.ExactArgs(2),
	RunE: runSetCorrection,
}

func init() {
	// Flags end at CHANNEL so that negative values are not read as shorthands.
	setCorrectionCmd.Flags().SetInterspersed(false)
}

func runSetCorrection(cmd *cobra.Command, args []string) error {
	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	value, err := parseCorrection(args[1])
	if err != nil {
		return err
	}
	raw, err := r4dcb08.EncodeCorrection(value)
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, client *r4dcb08.Client) error {
		if err := client.SetTemperatureCorrection(ctx, channel, value); err != nil {
			return fmt.Errorf("failed to set correction for channel %d: %w", channel, err)
		}
		return outputCorrectionSet(cmd.OutOrStdout(), channel, r4dcb08.DecodeCorrection(raw))
	})
}

func parseCorrection(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", r4dcb08.ErrInvalidCorrection, s)
	}
	return v, nil
}
