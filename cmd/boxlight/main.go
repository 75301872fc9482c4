package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/boxlight/internal/animation"
	"github.com/san-kum/boxlight/internal/assets"
	"github.com/san-kum/boxlight/internal/automation"
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/export"
	"github.com/san-kum/boxlight/internal/storage"
	"github.com/san-kum/boxlight/internal/viz"
)

const formatGIF = "gif"

var (
	dataDir   string
	imagesDir string
	workers   int
	// render flags
	outDir  string
	format  string
	blend   bool
	reverse bool
	record  bool
	// play flags
	gifPath string
)

// main registers the boxlight commands. With no subcommand it opens the
// player with nothing loaded.
func main() {
	rootCmd := &cobra.Command{
		Use:          "boxlight",
		Short:        "2D rigid-body animations with a moving light",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runPlay,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", storage.DefaultDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&imagesDir, "images", assets.DefaultDir, "image directory")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "blend workers")

	playCmd := &cobra.Command{
		Use:   "play [config]",
		Short: "play an animation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	playCmd.Flags().StringVar(&gifPath, "gif", "boxlight.gif", "where the g key writes a GIF")
	playCmd.Flags().StringVar(&outDir, "out", export.DefaultDir, "where the s key writes frames")

	renderCmd := &cobra.Command{
		Use:   "render [config]",
		Short: "generate an animation and write its frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&outDir, "out", export.DefaultDir, "output directory")
	renderCmd.Flags().StringVar(&format, "format", export.FormatBMP, "bmp, png or gif")
	renderCmd.Flags().BoolVar(&blend, "blend", false, "motion-blur 16 frames into one")
	renderCmd.Flags().BoolVar(&reverse, "reverse", false, "write frames last to first")
	renderCmd.Flags().BoolVar(&record, "record", false, "record the run under --data")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a script of console commands",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().StringVar(&outDir, "out", export.DefaultDir, "default save directory")
	scriptCmd.Flags().StringVar(&format, "format", export.FormatBMP, "bmp or png")

	rootCmd.AddCommand(playCmd, renderCmd, plotCmd, runsCmd, presetsCmd, scriptCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func newAnimation(sink diag.Sink, frameFormat string) *animation.Animation {
	return animation.New(animation.Options{
		Images:    assets.NewDirSource(imagesDir, sink),
		Sink:      sink,
		Workers:   workers,
		OutputDir: outDir,
		Format:    frameFormat,
	})
}

// fileLog logs to dataDir/log.txt only; the terminal belongs to the player.
func fileLog() (diag.Sink, io.Closer, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(filepath.Join(dataDir, "log.txt"))
	if err != nil {
		return nil, nil, err
	}
	return diag.NewLogger(f), f, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	logFile, closer, err := fileLog()
	if err != nil {
		return err
	}
	defer closer.Close()

	buf := diag.NewBuffer(256)
	sink := diag.Multi(buf, logFile)
	anim := newAnimation(sink, "")

	opts := viz.Options{Log: buf, Sink: sink, GIFPath: gifPath}
	if len(args) > 0 {
		opts.Load = args[0]
	} else {
		sink.Printf("Type ` then help for commands.")
	}
	return viz.Run(ctx, viz.NewModel(ctx, anim, opts))
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	frameFormat := format
	switch format {
	case export.FormatBMP, export.FormatPNG:
	case formatGIF:
		frameFormat = ""
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	logger, closer, err := diag.OpenLog(outDir)
	if err != nil {
		return err
	}
	defer closer.Close()

	anim := newAnimation(logger, frameFormat)
	if err := anim.Load(ctx, args[0]); err != nil {
		return err
	}

	if blend {
		if err := anim.Blend(ctx); err != nil {
			return err
		}
		logger.Printf("Blended into %d frames", anim.Len())
	}
	if reverse {
		anim.Reverse()
	}

	var output string
	if format == formatGIF {
		output = filepath.Join(outDir, "animation.gif")
		if err := anim.ExportGIF(output); err != nil {
			return err
		}
		logger.Printf("Wrote %s", output)
	} else {
		output = outDir
		n, err := anim.Save()
		if err != nil {
			return err
		}
		logger.Printf("Saved %d frames to %s", n, outDir)
	}

	if !record {
		return nil
	}
	meta := storage.NewRunMetadata(anim.Source(), anim.Config(), anim.Len())
	meta.Blended = blend
	meta.Output = output
	meta.Metrics = anim.Metrics()
	runID, err := storage.New(dataDir).Save(meta, anim.Trace())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	fmt.Printf("run: %s\n", runID)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	if script.Name != "" {
		fmt.Printf("script: %s\n", script.Name)
	}
	if script.Description != "" {
		fmt.Printf("%s\n", script.Description)
	}

	logger := diag.NewLogger(os.Stdout)
	_, err = automation.Run(ctx, script, newAnimation(logger, format), logger)
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tSIZE\tFPS\tLENGTH\tFRAMES\tOBJECTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.0f\t%.2fs\t%d\t%d\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Framerate,
			run.Length,
			run.Frames,
			run.Objects,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	header, rows, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("steps: %d\n", len(rows))
	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %.4f\n", name, meta.Metrics[name])
	}
	fmt.Println()

	columns := []struct{ name, caption string }{
		{"energy", "kinetic energy"},
	}
	const maxBodies = 5
	for i := 0; i < min(meta.Objects, maxBodies); i++ {
		columns = append(columns, struct{ name, caption string }{
			fmt.Sprintf("b%d_y", i), fmt.Sprintf("body %d height", i),
		})
	}

	for _, c := range columns {
		data, err := storage.Column(header, rows, c.name)
		if err != nil || len(data) == 0 {
			continue
		}
		// screen y grows downward
		if c.name != "energy" {
			for i := range data {
				data[i] = -data[i]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tFPS\tLENGTH\tOBJECTS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s%s\t%dx%d\t%.0f\t%.1fs\t%d\n",
			config.PresetPrefix, name, p.Width, p.Height, p.Framerate, p.AnimationLength, len(p.Objects))
	}
	return w.Flush()
}
