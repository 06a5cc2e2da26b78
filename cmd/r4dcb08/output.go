package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edgeo-scada/r4dcb08"
)

// Color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

func color(c, s string) string {
	if noColor {
		return s
	}
	return c + s + colorReset
}

func outputError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, color(colorRed, "ERROR")+" "+msg)
}

func outputWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, color(colorYellow, "WARN")+" "+msg)
}

func validateOutputFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatCSV:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or csv)", f)
	}
}

type TemperatureResult struct {
	Channel  int      `json:"channel"`
	Register uint16   `json:"register"`
	Celsius  *float64 `json:"celsius"`
}

type CorrectionResult struct {
	Channel  int     `json:"channel"`
	Register uint16  `json:"register"`
	Celsius  float64 `json:"celsius"`
}

func formatTemperature(ch int, t r4dcb08.Temperature) string {
	if !t.Valid {
		return fmt.Sprintf("Channel %d: No sensor", ch)
	}
	return fmt.Sprintf("Channel %d: %.1f°C", ch, t.Celsius)
}

func formatCorrection(ch int, celsius float64) string {
	return fmt.Sprintf("Channel %d: %+.1f°C", ch, celsius)
}

func temperatureResult(ch int, t r4dcb08.Temperature) TemperatureResult {
	r := TemperatureResult{Channel: ch, Register: r4dcb08.TemperatureRegister(ch)}
	if t.Valid {
		v := t.Celsius
		r.Celsius = &v
	}
	return r
}

// outputTemperatures renders readings for the given channels; channels[i]
// is the channel of temps[i].
func outputTemperatures(w io.Writer, channels []int, temps []r4dcb08.Temperature) error {
	switch viperOutput() {
	case formatJSON:
		results := make([]TemperatureResult, len(temps))
		for i, t := range temps {
			results[i] = temperatureResult(channels[i], t)
		}
		if len(results) == 1 {
			return writeJSON(w, results[0])
		}
		return writeJSON(w, results)
	case formatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"channel", "register", "celsius"})
		for i, t := range temps {
			val := ""
			if t.Valid {
				val = strconv.FormatFloat(t.Celsius, 'f', 1, 64)
			}
			cw.Write([]string{strconv.Itoa(channels[i]), strconv.Itoa(int(r4dcb08.TemperatureRegister(channels[i]))), val})
		}
		cw.Flush()
		return cw.Error()
	default:
		for i, t := range temps {
			fmt.Fprintln(w, formatTemperature(channels[i], t))
		}
		return nil
	}
}

func outputCorrections(w io.Writer, corrections []float64) error {
	switch viperOutput() {
	case formatJSON:
		results := make([]CorrectionResult, len(corrections))
		for ch, v := range corrections {
			results[ch] = CorrectionResult{Channel: ch, Register: r4dcb08.CorrectionRegister(ch), Celsius: v}
		}
		return writeJSON(w, results)
	case formatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"channel", "register", "celsius"})
		for ch, v := range corrections {
			cw.Write([]string{strconv.Itoa(ch), strconv.Itoa(int(r4dcb08.CorrectionRegister(ch))), strconv.FormatFloat(v, 'f', 1, 64)})
		}
		cw.Flush()
		return cw.Error()
	default:
		for ch, v := range corrections {
			fmt.Fprintln(w, formatCorrection(ch, v))
		}
		return nil
	}
}

func outputCorrectionSet(w io.Writer, ch int, celsius float64) error {
	switch viperOutput() {
	case formatJSON:
		return writeJSON(w, CorrectionResult{Channel: ch, Register: r4dcb08.CorrectionRegister(ch), Celsius: celsius})
	case formatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"channel", "register", "celsius"})
		cw.Write([]string{strconv.Itoa(ch), strconv.Itoa(int(r4dcb08.CorrectionRegister(ch))), strconv.FormatFloat(celsius, 'f', 1, 64)})
		cw.Flush()
		return cw.Error()
	default:
		fmt.Fprintf(w, "Successfully set correction for channel %d to %+.1f°C\n", ch, celsius)
		fmt.Fprintln(w, "Note: The correction will be applied to future temperature readings.")
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
