// Package main provides a command-line client for the R4DCB08 temperature collector.
package main

import (
	"os"

	"github.com/edgeo-scada/r4dcb08"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		outputError("%v", err)
		if r4dcb08.IsConnectionError(err) {
			outputWarning("%s", troubleshooting)
		}
		os.Exit(1)
	}
}

const troubleshooting = `Troubleshooting:
  1. Check that the device is powered and connected
  2. Verify the serial port path is correct
  3. Ensure no other program is using the serial port
  4. Check device address and baud rate settings`
