package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/convoys/internal/survival"
)

func newKMCmd(a *app) *cobra.Command {
	var (
		input string
		at    []float64
		ci    float64
	)
	cmd := &cobra.Command{
		Use:   "km",
		Short: "Fit a Kaplan-Meier curve and query its CDF",
		Long: `Fit a Kaplan-Meier curve to a CSV of observations and print the
cumulative conversion probability at the requested times.

The input has two columns, indicator and time, with an optional header row.
Output is CSV: time,cdf and, when the confidence level is non-zero, lower,upper.
Without --ci the level comes from survival.confidence in the config (0.95 by
default).

Examples:
  convoys km --input signups.csv --at 1,7,30
  convoys km --input signups.csv --at 7 --ci 0.9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ci") {
				ci = a.cfg.Survival.Confidence
			}

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()

			indicators, times, err := readObservations(f)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			a.logger.Debug("read observations", zap.String("input", input), zap.Int("rows", len(times)))

			km := survival.NewKaplanMeier(survival.WithLogger(a.logger))
			if err := km.Fit(indicators, times); err != nil {
				return err
			}
			return writeCDF(cmd.OutOrStdout(), km, at, ci)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV file with indicator,time rows")
	cmd.Flags().Float64SliceVar(&at, "at", nil, "comma-separated query times")
	cmd.Flags().Float64Var(&ci, "ci", 0, "confidence level in (0, 1); 0 disables intervals (default from config survival.confidence, 0.95)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// readObservations parses indicator,time rows. A first row whose fields
// are not numbers is treated as a header.
func readObservations(r io.Reader) (indicators, times []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		b, errB := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		t, errT := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errB != nil || errT != nil {
			if line == 1 {
				continue
			}
			return nil, nil, fmt.Errorf("line %d: %w", line, errors.Join(errB, errT))
		}
		indicators = append(indicators, b)
		times = append(times, t)
	}
	return indicators, times, nil
}

func writeCDF(w io.Writer, est survival.Estimator, at []float64, ci float64) error {
	cw := csv.NewWriter(w)
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

	if ci == 0 {
		if err := cw.Write([]string{"time", "cdf"}); err != nil {
			return err
		}
		for i, p := range est.CDF(at) {
			if err := cw.Write([]string{format(at[i]), format(p)}); err != nil {
				return err
			}
		}
	} else {
		rows, err := est.CDFInterval(at, ci)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"time", "cdf", "lower", "upper"}); err != nil {
			return err
		}
		for i, r := range rows {
			if err := cw.Write([]string{format(at[i]), format(r[0]), format(r[1]), format(r[2])}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
