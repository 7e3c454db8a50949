package collector

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/monify-labs/rsfetch/internal/metrics"
	"github.com/monify-labs/rsfetch/pkg/models"
)

// Options selects the accessors that take a parameter
type Options struct {
	PackageManager string
	Music          string
}

// Collector builds a Snapshot by calling every accessor once
type Collector struct {
	source *metrics.Source
	opts   Options
	log    logrus.FieldLogger
}

// NewCollector creates a new snapshot collector
func NewCollector(source *metrics.Source, opts Options, log logrus.FieldLogger) *Collector {
	return &Collector{
		source: source,
		opts:   opts,
		log:    log,
	}
}

// Collect gathers all metrics sequentially. The first failing accessor aborts
// collection and its error names the field.
func (c *Collector) Collect(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	s := c.source

	steps := []struct {
		field string
		run   func() error
	}{
		{"cpu", text(&snap.CPU, func() (string, error) { return s.CPU(ctx) })},
		{"device", text(&snap.Device, func() (string, error) { return s.Device(ctx) })},
		{"distro", text(&snap.Distro, func() (string, error) { return s.Distro(ctx) })},
		{"editor", text(&snap.Editor, func() (string, error) { return s.Env("EDITOR") })},
		{"environment", text(&snap.Environment, func() (string, error) { return s.Environment(ctx) })},
		{"gpu", list(&snap.GPUs, func() ([]string, error) { return s.GPUs(ctx) })},
		{"memory", text(&snap.Memory, func() (string, error) { return s.Memory(ctx) })},
		{"music", text(&snap.Music, func() (string, error) { return s.Music(ctx, c.opts.Music) })},
		{"packages", text(&snap.Packages, func() (string, error) { return s.Packages(ctx, c.opts.PackageManager) })},
		{"temperature", list(&snap.Temperatures, func() ([]string, error) { return s.Temperatures(ctx) })},
		{"terminal", text(&snap.Terminal, func() (string, error) { return s.Terminal(ctx) })},
		{"uptime", text(&snap.Uptime, func() (string, error) { return s.Uptime(ctx) })},
		{"user", text(&snap.User, func() (string, error) { return s.Env("USER") })},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("collect %s: %w", step.field, err)
		}
		c.log.WithField("field", step.field).Debug("Collected metric")
	}

	if !metrics.KnownPackageManager(c.opts.PackageManager) {
		c.log.WithField("manager", c.opts.PackageManager).Debug("Unknown package manager, packages not counted")
	}

	return snap, nil
}

// text stores the result of a string accessor in dst
func text(dst *string, get func() (string, error)) func() error {
	return func() error {
		v, err := get()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// list stores the result of a list accessor in dst
func list(dst *[]string, get func() ([]string, error)) func() error {
	return func() error {
		v, err := get()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}
