package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/geekboywoot/umjammer/cmd"
	"github.com/geekboywoot/umjammer/internal"
	"github.com/geekboywoot/umjammer/internal/alpha"
	"github.com/geekboywoot/umjammer/internal/config"
	"github.com/geekboywoot/umjammer/internal/lcdui"
	"github.com/geekboywoot/umjammer/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var debug bool
	var verbose bool
	var noBlending bool
	var alphaLevels int
	var convertOutput string
	var animateOutput string
	var outDir string
	var poolSize int
	var limit int
	var frameDelay float64
	var spin bool
	var pipeline cmd.PipelineFlags

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:     "lcdui",
		Long:    `MIDP-style image toolkit: PNG decoding, alpha policies and lossless region transforms`,
		Version: versioninfo.Short(),
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if verbose {
				logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}

			caps, err := config.LoadCapabilities()
			if err != nil {
				return err
			}
			if c.Flags().Changed("no-blending") {
				caps.AlphaBlending = !noBlending
			}
			if c.Flags().Changed("alpha-levels") {
				caps.AlphaLevels = alphaLevels
			}
			policy, err := alpha.NewPolicy(caps.AlphaBlending, caps.AlphaLevels)
			if err != nil {
				return err
			}
			lcdui.SetAlphaPolicy(policy)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log decoder and image model details")
	rootCmd.PersistentFlags().BoolVar(&noBlending, "no-blending", false, "Target a display without alpha blending (overrides "+config.EnvAlphaBlending+")")
	rootCmd.PersistentFlags().IntVar(&alphaLevels, "alpha-levels", 256, "Alpha levels of the target display (overrides "+config.EnvAlphaLevels+")")

	infoCmd := &cobra.Command{
		Use:   "info <file|url>",
		Short: "Show PNG header and alpha summary",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := cmd.Info(os.Stdout, args[0]); err != nil {
				log.Fatal(err)
			}
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <file|url> --output <file> [pipeline flags]",
		Short: "Decode, process and re-encode a single image",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := cmd.Convert(args[0], convertOutput, pipeline); err != nil {
				log.Fatal(err)
			}
		},
	}
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "out.png", "Output PNG file")
	pipeline.AddFlags(convertCmd)

	batchCmd := &cobra.Command{
		Use:   "batch <file|dir|url>... [--out <dir>] [--pool-size <n>] [--limit <n>] [pipeline flags]",
		Short: "Convert many images with a worker pool",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			internal.ShowVersion()
			internal.UserInfo()
			internal.EnvironmentVars()
			if err := cmd.Batch(outDir, poolSize, limit, args, pipeline); err != nil {
				log.Fatal(err)
			}
		},
	}
	batchCmd.Flags().StringVar(&outDir, "out", "./data/out", "Output directory")
	batchCmd.Flags().IntVar(&poolSize, "pool-size", 4, "Number of concurrent workers")
	batchCmd.Flags().IntVar(&limit, "limit", 0, "Process only the first N files (0 = all)")
	pipeline.AddFlags(batchCmd)

	animateCmd := &cobra.Command{
		Use:   "animate <file|url>... [--output <file>] [--delay <seconds>] [--spin]",
		Short: "Combine images into an animated PNG",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := cmd.Animate(animateOutput, args, frameDelay, spin); err != nil {
				log.Fatal(err)
			}
		},
	}
	animateCmd.Flags().StringVarP(&animateOutput, "output", "o", "animation.png", "Output APNG file")
	animateCmd.Flags().Float64Var(&frameDelay, "delay", 1.0, "Seconds per frame")
	animateCmd.Flags().BoolVar(&spin, "spin", false, "Animate one image through its four quarter turns")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			internal.ShowVersion()
			internal.EnvironmentVars()
			settings, err := config.LoadServer()
			if err != nil {
				log.Fatal(err)
			}
			cmd.ApiServer(port, debug, settings)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show build version",
		Run: func(_ *cobra.Command, _ []string) {
			internal.ShowVersion()
		},
	}

	rootCmd.AddCommand(infoCmd, convertCmd, batchCmd, animateCmd, apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
