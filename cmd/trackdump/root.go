package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/npillmayer/railspline"
	"github.com/npillmayer/railspline/config"
	"github.com/npillmayer/railspline/ctrlpt"
	"github.com/npillmayer/railspline/polygon"
	"github.com/npillmayer/railspline/track"
	"github.com/npillmayer/railspline/train"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	cfgFile   string
	curve     string
	track     string
	divisions int
	samples   int
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "trackdump",
		Short: "Print the geometry of a spline track",
		Long: `trackdump builds the track of a scene and prints its length, ties,
rails, scenery conflicts and a table of train poses.

Settings come from the scene file, then from RAILSPLINE_* environment
variables, then from flags.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.cfgFile, "config", "", "scene file (YAML)")
	cmd.Flags().StringVar(&opts.curve, "curve", "", "curve family: linear, cardinal, b-spline")
	cmd.Flags().StringVar(&opts.track, "track", "", "track style: simple, parallel, road")
	cmd.Flags().IntVar(&opts.divisions, "divisions", 0, "steps per spline segment")
	cmd.Flags().IntVar(&opts.samples, "samples", 8, "number of poses to print")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "development logging")
	return cmd
}

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadScene reads the scene and applies the flags set on the command line.
func loadScene(flags *pflag.FlagSet, opts *options) (*config.Scene, error) {
	scene, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "curve":
			scene.Curve = opts.curve
		case "track":
			scene.Track = opts.track
		case "divisions":
			scene.Divisions = opts.divisions
		}
	})
	if err = scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

func run(cmd *cobra.Command, opts *options) error {
	logger := newLogger(opts.verbose)
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	scene, err := loadScene(cmd.Flags(), opts)
	if err != nil {
		log.Errorw("cannot load scene", "config", opts.cfgFile, "error", err)
		return err
	}
	cfg, err := scene.TrackConfig()
	if err != nil {
		return err
	}
	store, err := scene.Store()
	if err != nil {
		return err
	}
	log.Infow("building track", "curve", cfg.Family.String(), "track", cfg.Style.String(),
		"points", store.N(), "divisions", cfg.Divisions)
	geom, err := track.NewCache(cfg).Get(store)
	if err != nil {
		log.Errorw("cannot build track", "error", err)
		return err
	}
	out := cmd.OutOrStdout()
	printSummary(out, store, geom)

	halfWidth := cfg.Gauge + 1
	conflicts := polygon.Clearance(geom, halfWidth, scene.Obstacles())
	printConflicts(out, scene, conflicts)
	if len(conflicts) > 0 {
		log.Warnw("track runs through scenery", "conflicts", len(conflicts),
			"overlap", lo.SumBy(conflicts, func(c polygon.Conflict) float64 { return c.Overlap }))
	}

	if opts.samples > 0 {
		if err = printPoses(out, scene, store, geom, opts.samples); err != nil {
			log.Errorw("cannot compute poses", "error", err)
			return err
		}
	}
	return nil
}

func printSummary(out io.Writer, store *ctrlpt.Store, g *track.Geometry) {
	fmt.Fprintf(out, "track   %s, %s rails\n", g.Config.Family, g.Config.Style)
	fmt.Fprintf(out, "points  %s\n", ctrlpt.AsString(store.Snapshot()))
	fmt.Fprintf(out, "length  %.3f\n", g.Length)
	fmt.Fprintf(out, "samples %d\n", len(g.Centerline))
	fmt.Fprintf(out, "rails   %d\n", len(g.Rails))
	fmt.Fprintf(out, "ties    %d\n", len(g.Ties))
}

func printConflicts(out io.Writer, scene *config.Scene, conflicts []polygon.Conflict) {
	if len(scene.Scenery) == 0 {
		return
	}
	if len(conflicts) == 0 {
		fmt.Fprintln(out, "scenery clear")
		return
	}
	names := lo.Map(conflicts, func(c polygon.Conflict, _ int) string {
		return fmt.Sprintf("%s (%.2f)", scene.Scenery[c.Index].Name, c.Overlap)
	})
	fmt.Fprintf(out, "scenery in the way: %s\n", strings.Join(names, ", "))
}

func printPoses(out io.Writer, scene *config.Scene, store *ctrlpt.Store, g *track.Geometry, samples int) error {
	f := g.Config.Family
	consist := scene.Consist()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "time\tcar\tposition\tyaw\tpitch\tcamera")
	for i := 0; i < samples; i++ {
		time := float64(i) / float64(samples)
		poses, err := consist.Poses(g, store, f, time)
		if err != nil {
			return err
		}
		view, err := train.Camera(store, f, time, g.Config.Divisions)
		if err != nil {
			return err
		}
		for k, p := range poses {
			cam := ""
			if k == 0 {
				cam = railspline.VString(view.Eye)
			}
			fmt.Fprintf(tw, "%.4f\t%d\t%s\t%.2f\t%.2f\t%s\n", time, k,
				railspline.VString(p.Position), p.YawDeg, p.PitchDeg, cam)
		}
	}
	return tw.Flush()
}
