package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/monify-labs/rsfetch/internal/collector"
	"github.com/monify-labs/rsfetch/internal/config"
	"github.com/monify-labs/rsfetch/internal/metrics"
	"github.com/monify-labs/rsfetch/internal/ui"
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--help":
			printUsage()
			return
		case "version", "--version":
			showVersion()
			return
		}
	}

	log := newLogger(config.IsDebugMode())

	cfg, err := config.Load(config.Dir(), args)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	log.WithFields(logrus.Fields{
		"package_manager": cfg.PackageManager,
		"image":           cfg.ImagePath,
		"music":           cfg.Music,
		"mode":            cfg.Mode,
	}).Debug("Configuration loaded")

	// Collection is the only step that can block; allow Ctrl+C to abort it
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := collector.NewCollector(
		metrics.NewSource(config.CommandTimeout),
		collector.Options{
			PackageManager: cfg.PackageManager,
			Music:          cfg.Music,
		},
		log,
	)

	snap, err := c.Collect(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to collect system information")
	}
	cancel()

	log.WithField("snapshot", snap).Debug("Snapshot collected")

	if cfg.Mode == config.ModeText {
		if err := ui.WriteText(os.Stdout, snap); err != nil {
			log.WithError(err).Fatal("Failed to write output")
		}
		return
	}

	var img image.Image
	if cfg.HasImage() {
		img, err = ui.LoadImage(cfg.ImagePath)
		if err != nil {
			log.WithError(err).Fatal("Failed to load image")
		}
	}

	ui.Run(cfg, snap, img)
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func printUsage() {
	fmt.Printf(`rsfetch - System information viewer

Usage:
  rsfetch [PACKAGE_MANAGER] [IMAGE_PATH]
  rsfetch <command>

Arguments:
  PACKAGE_MANAGER  Package manager to count packages for (default: %s)
                   apk, apt, dnf, dpkg, eopkg, flatpak, nix, pacman, pip,
                   portage, rpm, slackware, void, xbps, yum, zypper
  IMAGE_PATH       Image shown next to the information (default: %s, no image)

Commands:
  version   Show version information
  help      Show this help message

Environment Variables:
  RSFETCH_PACKAGE_MANAGER  Package manager (overridden by the argument)
  RSFETCH_IMAGE            Image path (overridden by the argument)
  RSFETCH_MUSIC            Music backend: none, mpd or playerctl (default: none)
  RSFETCH_MODE             gui or text (default: gui)
  RSFETCH_DEBUG            Enable debug logging (true/1)

Configuration Files:
  %s
  %s

Examples:
  rsfetch pacman ~/Pictures/logo.png
  RSFETCH_MODE=text rsfetch apt
`,
		config.DefaultPackageManager,
		config.DefaultImagePath,
		filepath.Join(config.Dir(), config.ConfigFileName),
		filepath.Join(config.Dir(), config.EnvFileName),
	)
}

func showVersion() {
	fmt.Printf("rsfetch v%s\n", config.Version)
	fmt.Printf("Commit: %s\n", config.Commit)
	fmt.Printf("Build Date: %s\n", config.BuildDate)
}
