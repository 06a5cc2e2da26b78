package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/r4dcb08"
)

var readAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Read temperatures from all 8 channels",
	Long: `Read the temperature bank (registers 0x0000-0x0007) in one transaction.
Channels without a sensor are reported as "No sensor".`,
	Example: `  r4dcb08 -p /dev/ttyUSB0 read-all
  r4dcb08 -p /dev/ttyUSB0 -o json read-all`,
	Args: cobra.NoArgs,
	RunE: runReadAll,
}

var readChannelCmd = &cobra.Command{
	Use:   "read-channel CHANNEL",
	Short: "Read temperature from a specific channel (0-7)",
	Long: `Read a single temperature register (0x0000 + CHANNEL).

Arguments starting with "-" are read as flags; put them after "--".`,
	Example: `  r4dcb08 -p /dev/ttyUSB0 read-channel 0
  r4dcb08 -p COM3 -a 2 read-channel 7
  r4dcb08 -p /dev/ttyUSB0 read-channel -- -1   # rejected: invalid channel`,
	Args: cobra.ExactArgs(1),
	RunE: runReadChannel,
}

var readCorrectionsCmd = &cobra.Command{
	Use:     "read-corrections",
	Short:   "Read temperature corrections from all channels",
	Long:    `Read the correction bank (registers 0x0008-0x000F) in one transaction.`,
	Example: `  r4dcb08 -p /dev/ttyUSB0 read-corrections`,
	Args:    cobra.NoArgs,
	RunE:    runReadCorrections,
}

func runReadAll(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, client *r4dcb08.Client) error {
		temps, err := client.ReadAllTemperatures(ctx)
		if err != nil {
			return fmt.Errorf("failed to read temperatures: %w", err)
		}
		return outputTemperatures(cmd.OutOrStdout(), allChannels(), temps)
	})
}

func runReadChannel(cmd *cobra.Command, args []string) error {
	channel, err := parseChannel(args[0])
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, client *r4dcb08.Client) error {
		temp, err := client.ReadSingleTemperature(ctx, channel)
		if err != nil {
			return fmt.Errorf("failed to read temperature from channel %d: %w", channel, err)
		}
		return outputTemperatures(cmd.OutOrStdout(), []int{channel}, []r4dcb08.Temperature{temp})
	})
}

func runReadCorrections(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, client *r4dcb08.Client) error {
		corrections, err := client.ReadAllCorrections(ctx)
		if err != nil {
			return fmt.Errorf("failed to read temperature corrections: %w", err)
		}
		return outputCorrections(cmd.OutOrStdout(), corrections)
	})
}

func parseChannel(s string) (int, error) {
	ch, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", r4dcb08.ErrInvalidChannel, s)
	}
	if err := r4dcb08.ValidateChannel(ch); err != nil {
		return 0, err
	}
	return ch, nil
}

func allChannels() []int {
	channels := make([]int, r4dcb08.Channels)
	for i := range channels {
		channels[i] = i
	}
	return channels
}
