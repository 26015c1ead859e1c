// Command aero-parse runs the Aero parser pipeline (spec.md §4.L) over a
// decoded signal-unit stream, classifying and reassembling user data,
// dispatching ACARS and other named records to UDP/file sinks, and (for the
// C-channel) writing decoded voice to a WAV file. An optional live
// dashboard mirrors the teacher's aircraft-table TUI, showing the most
// recently seen ACARS and other packets instead.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/lmittmann/tint"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"github.com/JS-HobbySoft/aero/internal/aero/acars"
	"github.com/JS-HobbySoft/aero/internal/aero/config"
	"github.com/JS-HobbySoft/aero/internal/aero/external"
	"github.com/JS-HobbySoft/aero/internal/aero/packets"
	"github.com/JS-HobbySoft/aero/internal/aero/parser"
)

func newRootCommand() *cobra.Command {
	var (
		inputPath  string
		outputHint string
		isC        bool
		saveFiles  bool
		stationID  string
		udpSinks   []string
		wavPath    string
		dashboard  bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "aero-parse",
		Short: "Classify and reassemble a decoded Inmarsat Aero signal-unit stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

			sinks, err := parseUDPSinks(udpSinks)
			if err != nil {
				return err
			}

			cfg := config.Parser{
				IsC:        isC,
				UDPSinks:   sinks,
				SaveFiles:  saveFiles,
				StationID:  stationID,
				OutputHint: outputHint,
			}

			var opts []parser.Option
			var wavFile *os.File
			if isC {
				if wavPath == "" {
					return fmt.Errorf("--wav is required with --is-c")
				}
				wavFile, err = os.Create(wavPath)
				if err != nil {
					return fmt.Errorf("creating wav output: %w", err)
				}
				defer wavFile.Close()
				opts = append(opts, parser.WithWavWriter(external.NewWavWriter(wavFile)))
			}

			p, err := parser.New(cfg, acars.New(), logger, opts...)
			if err != nil {
				return fmt.Errorf("building parser pipeline: %w", err)
			}
			defer p.Close()

			in, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer in.Close()

			logger.Info("aero parser starting", "is_c", isC, "save_files", saveFiles)

			if !dashboard {
				return p.Run(cmd.Context(), in)
			}
			return runWithDashboard(cmd.Context(), p, in)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&inputPath, "input", "", "path to the decoded signal-unit byte stream (required)")
	flags.StringVar(&outputHint, "output", ".", "base directory non-suppressed records are written under")
	flags.BoolVar(&isC, "is-c", false, "parse the C (voice+signalling) channel instead of P/R/T")
	flags.BoolVar(&saveFiles, "save-files", true, "write non-suppressed records to <output>/<msg_name>/*.json")
	flags.StringVar(&stationID, "station-id", "", "stamped into every UDP-sent record's source.station_id")
	flags.StringArrayVar(&udpSinks, "udp", nil, "host:port to stream every emitted record to as JSON (repeatable)")
	flags.StringVar(&wavPath, "wav", "", "WAV output path (required with --is-c)")
	flags.BoolVar(&dashboard, "dashboard", false, "show a live terminal dashboard of recent packets")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagRequired("input")

	return cmd
}

func parseUDPSinks(specs []string) ([]config.UDPSink, error) {
	sinks := make([]config.UDPSink, 0, len(specs))
	for _, spec := range specs {
		host, portStr, err := net.SplitHostPort(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid --udp sink %q: %w", spec, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --udp sink port %q: %w", spec, err)
		}
		sinks = append(sinks, config.UDPSink{Address: host, Port: port})
	}
	return sinks, nil
}

// runWithDashboard runs the parser pipeline on a background goroutine while
// driving a gocui dashboard on the main goroutine, the same split the
// teacher's main.go uses between rtl_adsb.StartReceive and g.MainLoop.
func runWithDashboard(ctx context.Context, p *parser.Pipeline, in *os.File) error {
	g, err := gocui.NewGui(gocui.OutputNormal, false)
	if err != nil {
		return fmt.Errorf("starting dashboard: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(func(g *gocui.Gui) error { return layout(g) })
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, func(*gocui.Gui, *gocui.View) error {
		return gocui.ErrQuit
	}); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(runCtx, in)
	}()

	go func() {
		for range time.Tick(time.Second) {
			g.Update(func(g *gocui.Gui) error { return updateDashboard(g, p) })
		}
	}()

	if err := g.MainLoop(); err != nil && !gocui.IsQuit(err) {
		return err
	}
	cancel()
	return <-errCh
}

func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	v, _ := g.SetView("status", 0, 0, maxX-1, 2, 0)
	v.Title = " STATUS "
	fmt.Fprintln(v, " waiting for packets...")

	v, _ = g.SetView("acars", 0, 3, maxX-1, maxY/2, 0)
	v.Title = " ACARS "

	v, _ = g.SetView("other", 0, maxY/2+1, maxX-1, maxY-1, 0)
	v.Title = " OTHER PACKETS "

	return nil
}

func updateDashboard(g *gocui.Gui, p *parser.Pipeline) error {
	acarsList, otherList := p.History().Snapshot()

	if s, err := g.View("status"); err == nil {
		s.Clear()
		fmt.Fprintf(s, " ACARS: %02d  OTHER: %02d  LAST UPDATE: %s\n",
			aurora.Green(len(acarsList)),
			aurora.Green(len(otherList)),
			aurora.Bold(aurora.Green(time.Now().Format("2006-01-02 15:04:05"))))
	}

	if a, err := g.View("acars"); err == nil {
		a.Clear()
		for _, rec := range lastN(acarsList, 20) {
			reg, _ := rec["plane_reg"].(string)
			msg, _ := rec["message"].(string)
			fmt.Fprintln(a, aurora.Sprintf(aurora.Yellow(" %-8s %s"), reg, msg))
		}
	}

	if o, err := g.View("other"); err == nil {
		o.Clear()
		names := make(map[string]int)
		for _, rec := range otherList {
			name, _ := rec["msg_name"].(string)
			names[name]++
		}
		keys := make([]string, 0, len(names))
		for k := range names {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(o, " %-40s %d\n", k, names[k])
		}
	}

	return nil
}

func lastN(recs []packets.Record, n int) []packets.Record {
	if len(recs) <= n {
		return recs
	}
	return recs[len(recs)-n:]
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "aero-parse:", err)
		os.Exit(1)
	}
}
