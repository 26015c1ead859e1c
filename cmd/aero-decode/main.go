// Command aero-decode runs the Aero decoder pipeline (spec.md §4.K) over a
// file of raw soft symbols, writing the recovered, descrambled byte stream
// to an output file for aero-parse to consume.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/JS-HobbySoft/aero/internal/aero/config"
	"github.com/JS-HobbySoft/aero/internal/aero/decoder"
)

func newRootCommand() *cobra.Command {
	var (
		inputPath   string
		outputPath  string
		isC         bool
		oqpsk       bool
		dummyBits   int
		interCols   int
		interBlocks int
		berThresh   float64
		vfoFreq     float64
		vfoName     string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "aero-decode",
		Short: "Demodulate Inmarsat Aero soft symbols into a descrambled byte stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

			cfg := config.Decoder{
				IsC:          isC,
				OQPSK:        oqpsk,
				DummyBits:    dummyBits,
				InterCols:    interCols,
				InterBlocks:  interBlocks,
				BERThreshold: berThresh,
				VFOFreq:      vfoFreq,
				VFOName:      vfoName,
			}

			pipeline, err := decoder.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("building decoder pipeline: %w", err)
			}

			in, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer in.Close()

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer out.Close()

			logger.Info("aero decoder starting",
				"geometry", pipeline.Geometry(),
				"is_c", isC, "oqpsk", oqpsk)

			return pipeline.Run(cmd.Context(), in, func(o decoder.Output) {
				if _, err := out.Write(o.Bytes); err != nil {
					logger.Error("writing decoded frame", "error", err)
				}
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&inputPath, "input", "", "path to raw signed-8-bit soft symbol file (required)")
	flags.StringVar(&outputPath, "output", "", "path to write the decoded byte stream (required)")
	flags.BoolVar(&isC, "is-c", false, "decode the C (voice+signalling) channel instead of P/R/T")
	flags.BoolVar(&oqpsk, "oqpsk", false, "offset-modulated symbols (vs binary-phase)")
	flags.IntVar(&dummyBits, "dummy-bits", 0, "post-sync header padding bits")
	flags.IntVar(&interCols, "inter-cols", 0, "interleaver column count (required)")
	flags.IntVar(&interBlocks, "inter-blocks", 0, "interleaver block count (required)")
	flags.Float64Var(&berThresh, "ber-threshold", config.DefaultBERThreshold, "maximum post-Viterbi BER accepted for emission")
	flags.Float64Var(&vfoFreq, "vfo-freq", 0, "diagnostic VFO frequency label")
	flags.StringVar(&vfoName, "vfo-name", "", "diagnostic VFO name label")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("inter-cols")
	cmd.MarkFlagRequired("inter-blocks")

	return cmd
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "aero-decode:", err)
		os.Exit(1)
	}
}
