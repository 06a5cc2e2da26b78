package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/r4dcb08"
)

var (
	cfgFile string

	// Global flags
	port      string
	address   int
	baudrate  int
	timeout   float64
	outputFmt string
	verbose   bool
	noColor   bool

	logger *slog.Logger

	// dialer replaces the serial transport when set.
	dialer r4dcb08.Dialer
)

var errNoCommand = errors.New("no command given")

var rootCmd = &cobra.Command{
	Use:   "r4dcb08",
	Short: "Command line client for the R4DCB08 temperature collector",
	Long: `r4dcb08 reads and writes the R4DCB08 8-channel DS18B20 temperature collector
over Modbus RTU (9600 8N1 by default).

Registers:
  0x0000-0x0007  temperature per channel (0.1 °C, 0x8000 = no sensor)
  0x0008-0x000F  correction per channel  (0.1 °C)

Examples:
  r4dcb08 --port /dev/ttyUSB0 --address 1 read-all
  r4dcb08 --port COM3 --address 2 read-channel 0
  r4dcb08 --port /dev/ttyUSB0 set-correction 3 1.5
  r4dcb08 --port /dev/ttyUSB0 read-corrections
  r4dcb08 --port tcp://192.168.1.20:502 read-all`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: level,
		}))
		return validateOutputFormat(viperOutput())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return errNoCommand
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Configuration file
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.r4dcb08.yaml)")

	// Connection flags
	rootCmd.PersistentFlags().StringVarP(&port, "port", "p", "", "Serial port (e.g. /dev/ttyUSB0, COM3) or tcp://host:port gateway [required]")
	rootCmd.PersistentFlags().IntVarP(&address, "address", "a", r4dcb08.DefaultAddress, "Modbus device address (1-247)")
	rootCmd.PersistentFlags().IntVarP(&baudrate, "baudrate", "b", r4dcb08.DefaultBaudRate, "Baud rate: 1200, 2400, 4800, 9600, 19200")
	rootCmd.PersistentFlags().Float64VarP(&timeout, "timeout", "t", r4dcb08.DefaultTimeout.Seconds(), "Communication timeout in seconds")

	// Output flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", formatText, "Output format: text, json, csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")

	// Bind to viper
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("address", rootCmd.PersistentFlags().Lookup("address"))
	viper.BindPFlag("baudrate", rootCmd.PersistentFlags().Lookup("baudrate"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	// Add commands
	rootCmd.AddCommand(readAllCmd)
	rootCmd.AddCommand(readChannelCmd)
	rootCmd.AddCommand(readCorrectionsCmd)
	rootCmd.AddCommand(setCorrectionCmd)
	rootCmd.AddCommand(publishCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".r4dcb08")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("R4DCB08")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func viperOutput() string {
	return strings.ToLower(viper.GetString("output"))
}

// loadConfig resolves the connection settings from flags, environment and
// config file, in that order of precedence.
func loadConfig() (r4dcb08.Config, error) {
	cfg := r4dcb08.DefaultConfig(viper.GetString("port"))
	cfg.Address = viper.GetInt("address")
	cfg.BaudRate = viper.GetInt("baudrate")
	cfg.Timeout = time.Duration(viper.GetFloat64("timeout") * float64(time.Second))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// withClient connects to the collector, runs fn and always disconnects.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *r4dcb08.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []r4dcb08.Option{r4dcb08.WithLogger(logger)}
	if dialer != nil {
		opts = append(opts, r4dcb08.WithDialer(dialer))
	}
	client, err := r4dcb08.NewClient(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			logger.Warn("disconnect failed", slog.Any("error", err))
		}
		logger.Debug("transactions", slog.Any("metrics", client.Metrics().Collect()))
	}()

	ctx := cmd.Context()
	if err := client.Connect(ctx); err != nil {
		return err
	}
	return fn(ctx, client)
}
