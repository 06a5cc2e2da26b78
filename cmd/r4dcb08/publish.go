package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/r4dcb08"
	"github.com/edgeo-scada/r4dcb08/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Read all channels and publish one snapshot to MQTT",
	Long: `Read the temperature bank once and publish it as JSON to an MQTT broker:

  {"ts": 1760000000, "address": 1, "channels": [{"channel": 0, "celsius": 22.5}, ...]}

Channels without a sensor carry "celsius": null. The topic defaults to
r4dcb08/<address>/temperatures. Broker settings can also be given in the
config file under the "mqtt" key or as R4DCB08_MQTT_* environment variables.`,
	Example: `  r4dcb08 -p /dev/ttyUSB0 publish --broker tcp://mqtt:1883
  r4dcb08 -p /dev/ttyUSB0 publish --topic plant/boiler/temps --qos 1 --retain`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

// newPublisher connects to the broker; replaced in tests.
var newPublisher = func(cfg publish.Config) (snapshotPublisher, error) {
	p, err := publish.New(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type snapshotPublisher interface {
	Publish(publish.Snapshot) error
	Topic() string
	Close()
}

func init() {
	publishCmd.Flags().String("broker", publish.DefaultBroker, "MQTT broker URL")
	publishCmd.Flags().String("topic", "", "MQTT topic (default r4dcb08/<address>/temperatures)")
	publishCmd.Flags().String("client-id", publish.DefaultClientID, "MQTT client ID")
	publishCmd.Flags().String("username", "", "MQTT username")
	publishCmd.Flags().String("password", "", "MQTT password")
	publishCmd.Flags().Uint8("qos", 0, "MQTT QoS level (0-2)")
	publishCmd.Flags().Bool("retain", false, "Publish as retained message")

	for _, name := range []string{"broker", "topic", "client-id", "username", "password", "qos", "retain"} {
		viper.BindPFlag("mqtt."+name, publishCmd.Flags().Lookup(name))
	}
}

func loadPublishConfig(address int) (publish.Config, error) {
	cfg := publish.Config{
		Broker:   viper.GetString("mqtt.broker"),
		ClientID: viper.GetString("mqtt.client-id"),
		Username: viper.GetString("mqtt.username"),
		Password: viper.GetString("mqtt.password"),
		Topic:    viper.GetString("mqtt.topic"),
		QoS:      byte(viper.GetUint("mqtt.qos")),
		Retain:   viper.GetBool("mqtt.retain"),
	}
	if cfg.QoS > 2 {
		return cfg, fmt.Errorf("invalid MQTT QoS %d (expected 0, 1 or 2)", cfg.QoS)
	}
	if cfg.Topic == "" {
		cfg.Topic = publish.DefaultTopic(address)
	}
	return cfg, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	pubCfg, err := loadPublishConfig(viper.GetInt("address"))
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, client *r4dcb08.Client) error {
		temps, err := client.ReadAllTemperatures(ctx)
		if err != nil {
			return fmt.Errorf("failed to read temperatures: %w", err)
		}

		pub, err := newPublisher(pubCfg)
		if err != nil {
			return err
		}
		defer pub.Close()

		snap := publish.Snapshot{
			Time:         time.Now(),
			Address:      client.Config().Address,
			Temperatures: temps,
		}
		if err := pub.Publish(snap); err != nil {
			return err
		}

		logger.Info("published", slog.String("topic", pub.Topic()), slog.Int("channels", len(temps)))
		return outputTemperatures(cmd.OutOrStdout(), allChannels(), temps)
	})
}
