package cmd

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/splashgfx/termsplash"
	"github.com/splashgfx/termsplash/internal/config"
)

var (
	verbose     bool
	protoName   string
	colors      int
	noFallback  bool
	showSupport bool
)

func init() {
	log.SetHandler(clihandler.Default)
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&protoName, "protocol", "p", "", "Force a protocol (iterm2, kitty, sixel)")
	rootCmd.Flags().IntVar(&colors, "colors", 0, "Sixel palette size (2-256)")
	rootCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Skip the half-block fallback rendering")
	rootCmd.Flags().BoolVar(&showSupport, "protocols", false, "Report detected protocol support and exit")
}

var (
	styleYes = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleNo  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func yn(ok bool) string {
	if ok {
		return styleYes.Render("Yes")
	}
	return styleNo.Render("No")
}

var rootCmd = &cobra.Command{
	Use:   "splash [image]",
	Short: "Show an image inline using the best available terminal graphics protocol.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.WithError(err).Warn("ignoring unreadable config")
			cfg = &config.Config{}
		}
		if verbose || cfg.Verbose {
			log.SetLevel(log.DebugLevel)
		}

		sig := termsplash.SignalsFromEnv()
		if protoName == "" {
			protoName = cfg.Protocol
		}
		if p := termsplash.ParseProtocol(protoName); p != termsplash.None {
			sig.Force = p
		}

		if showSupport {
			printSupport(sig)
			return
		}

		if len(args) == 0 {
			log.Error("an image path is required")
			_ = cmd.Usage()
			os.Exit(1)
		}

		img, err := decodeImage(args[0])
		if err != nil {
			// An undecodable source asset is a packaging defect, not a
			// terminal limitation; report it distinctly and disable image
			// rendering for this run.
			log.WithError(err).Errorf("cannot decode %s; image rendering disabled", args[0])
			os.Exit(1)
		}

		geom := termsplash.DetectGeometry(os.Stdout).WithCellSize(cfg.CellWidth, cfg.CellHeight)
		if colors == 0 {
			colors = cfg.SixelColors
		}

		res := termsplash.New(img).
			Signals(sig).
			Geometry(geom).
			SixelColors(colors).
			Logger(log.Log).
			Show()

		if res.Emitted {
			fmt.Println()
			return
		}

		log.Debugf("image not emitted: %s", res.Reason)
		if noFallback || cfg.NoFallback {
			return
		}
		fmt.Println((&termsplash.BlocksRenderer{}).Render(img, geom))
	},
}

func printSupport(sig termsplash.DetectionSignals) {
	sup := termsplash.DetectSupport(sig)
	fmt.Println("Protocol support:")
	fmt.Printf("  iTerm2: %s\n", yn(sup.ITerm2))
	fmt.Printf("  Kitty:  %s\n", yn(sup.Kitty))
	fmt.Printf("  Sixel:  %s\n", yn(sup.Sixel))
	if !sup.Any() {
		fmt.Println("No supported graphics protocols detected.")
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
