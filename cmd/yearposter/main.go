package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattwhite/yearposter/internal/activity"
	"github.com/mattwhite/yearposter/internal/ai"
	"github.com/mattwhite/yearposter/internal/chart"
	"github.com/mattwhite/yearposter/internal/config"
	"github.com/mattwhite/yearposter/internal/onboarding"
	"github.com/mattwhite/yearposter/internal/poster"
	"github.com/mattwhite/yearposter/internal/summary"
	"github.com/mattwhite/yearposter/internal/viewer"
)

// Version is set at build time via ldflags: -X main.Version=$(VERSION)
var Version = "dev"

type options struct {
	configPath      string
	data            string
	year            int
	unit            string
	specialDistance float64
	types           []string
}

// session is everything a command needs after flags and config are merged.
type session struct {
	cfg  config.Config
	host *poster.Settings
	year int
}

func (o *options) session(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data = o.data
	}
	if flags.Changed("year") || flags.Changed("summary-year") {
		cfg.Year = o.year
	}
	if flags.Changed("unit") {
		cfg.Unit = o.unit
	}
	if flags.Changed("special-distance") {
		cfg.SpecialDistance = o.specialDistance
	}
	if flags.Changed("types") {
		cfg.Types = o.types
	}

	host, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, host: host, year: cfg.EffectiveYear(time.Now())}, nil
}

func (s *session) tracks(ctx context.Context) ([]activity.Activity, error) {
	acts, err := activity.Load(ctx, s.cfg.Data)
	if err != nil {
		return nil, err
	}
	acts = activity.FilterTypes(acts, s.cfg.Types...)
	log.Printf("loaded %d activities from %s", len(acts), s.cfg.Data)
	return acts, nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("yearposter: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "yearposter",
		Short:        "Render a year summary poster of your runs",
		Version:      Version,
		SilenceUsage: true,
		// poster is the default action
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoster(cmd, opts, "", "")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&opts.data, "data", "", "activities.json, data.db or a directory of FIT files")
	pf.IntVar(&opts.year, "year", 0, "year to summarise (default: current year)")
	pf.StringVar(&opts.unit, "unit", "", "metric or imperial")
	pf.Float64Var(&opts.specialDistance, "special-distance", 0, "distance in display units drawn in the special color")
	pf.StringSliceVar(&opts.types, "types", nil, "activity types to include, e.g. Run,TrailRun")

	root.AddCommand(
		newPosterCmd(opts),
		newStatsCmd(opts),
		newChartCmd(opts),
		newViewCmd(opts),
		newRecapCmd(opts),
		newConfigCmd(opts),
		newSetupCmd(opts),
	)
	return root
}

func newPosterCmd(opts *options) *cobra.Command {
	var output, title string
	cmd := &cobra.Command{
		Use:   "poster",
		Short: "Write the year summary poster as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoster(cmd, opts, output, title)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG path")
	cmd.Flags().StringVar(&title, "title", "", "poster title")
	// running_page spells the year flag this way
	cmd.Flags().IntVar(&opts.year, "summary-year", 0, "alias for --year")
	return cmd
}

func runPoster(cmd *cobra.Command, opts *options, output, title string) error {
	s, err := opts.session(cmd)
	if err != nil {
		return err
	}
	tracks, err := s.tracks(cmd.Context())
	if err != nil {
		return err
	}

	if output == "" {
		output = s.cfg.Output
	}
	if title == "" {
		title = s.cfg.Title
	}

	p := poster.Poster{
		Title:  title,
		Size:   poster.XY{X: s.cfg.Width, Y: s.cfg.Height},
		Host:   s.host,
		Tracks: tracks,
	}
	// render fully before touching output so a failure leaves it intact
	var buf bytes.Buffer
	stats, err := p.Render(&buf, poster.YearSummary{Year: s.year, Host: s.host})
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	log.Printf("wrote %s (%d runs, %.1f %s)", output, stats.TotalRuns, stats.TotalDistance, s.host.UnitLabel())
	return nil
}

func newStatsCmd(opts *options) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the year statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			tracks, err := s.tracks(cmd.Context())
			if err != nil {
				return err
			}
			yearTracks := activity.FilterYear(tracks, s.year)
			stats := summary.Calculate(yearTracks, s.host)

			titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.host.Palette().Track.Hex())).MarginBottom(1)
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("%d Year Summary", s.year)))
			fmt.Fprintln(cmd.OutOrStdout(), viewer.RenderStats(stats, s.host.UnitLabel()))

			if top > 0 && len(yearTracks) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTopRuns(summary.TopRuns(yearTracks, top), s.host))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "also list the N longest runs")
	return cmd
}

func renderTopRuns(runs []activity.Activity, host *poster.Settings) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#999"))
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Longest runs")}
	for i, r := range runs {
		name := r.Name
		if name == "" {
			name = r.Type
		}
		lines = append(lines, fmt.Sprintf("%2d. %s  %6.2f %s  %s", i+1,
			r.StartLocal.Format("2006-01-02"), host.M2U(r.Length), host.UnitLabel(), label.Render(name)))
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(lines, "\n"))
}

func newChartCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Write the cumulative distance chart (SVG or PNG by extension)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			tracks, err := s.tracks(cmd.Context())
			if err != nil {
				return err
			}
			stats := summary.Calculate(activity.FilterYear(tracks, s.year), s.host)

			if output == "" {
				output = fmt.Sprintf("cumulative_%d.svg", s.year)
			}
			format := chart.SVG
			if strings.EqualFold(filepath.Ext(output), ".png") {
				format = chart.PNG
			}

			var buf bytes.Buffer
			err = chart.Cumulative(&buf, stats, chart.Options{
				Year:   s.year,
				Unit:   s.host.UnitLabel(),
				Format: format,
				Colors: s.host.Palette(),
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			log.Printf("wrote %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (.svg or .png)")
	return cmd
}

func newViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Preview the year grid in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			// keep loader chatter off the alt screen
			log.SetOutput(io.Discard)
			load := func() ([]activity.Activity, error) { return s.tracks(cmd.Context()) }
			p := tea.NewProgram(viewer.New(load, s.host, s.year), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

func newRecapCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recap",
		Short: "Ask Claude for a short recap of the year",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			tracks, err := s.tracks(cmd.Context())
			if err != nil {
				return err
			}
			stats := summary.Calculate(activity.FilterYear(tracks, s.year), s.host)

			fmt.Fprintln(cmd.ErrOrStderr(), "🔮 Writing your recap...")
			recap, err := ai.Recap(cmd.Context(), s.cfg.AnthropicAPIKey, s.year, s.host.UnitLabel(), stats)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), recap)
			return nil
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			data, err := s.cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newSetupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactively write the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if path == "" {
				return fmt.Errorf("no config path; pass --config")
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			saved, err := onboarding.Run(path, cfg)
			if err != nil {
				return err
			}
			if !saved {
				fmt.Fprintln(cmd.ErrOrStderr(), "Setup cancelled; nothing written.")
			}
			return nil
		},
	}
}
