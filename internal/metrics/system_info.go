package metrics

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/monify-labs/rsfetch/pkg/models"
)

// osReleasePaths are checked in order for distribution metadata
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// shells are skipped when walking up to the terminal process
var shells = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "fish": true, "dash": true,
	"ksh": true, "mksh": true, "tcsh": true, "csh": true, "nu": true,
	"elvish": true, "xonsh": true, "ion": true, "yash": true, "oil": true,
	"sudo": true, "doas": true, "su": true, "rsfetch": true,
}

// maxProcessDepth bounds the walk up the process tree
const maxProcessDepth = 8

// Distro returns the distribution name from os-release, falling back to the
// platform reported by gopsutil
func (s *Source) Distro(ctx context.Context) (string, error) {
	for _, path := range osReleasePaths {
		data, err := s.ReadFile(path)
		if err != nil {
			continue
		}

		fields, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			continue
		}

		for _, key := range []string{"PRETTY_NAME", "NAME"} {
			if name := strings.TrimSpace(fields[key]); name != "" {
				return name, nil
			}
		}
	}

	platform, _, version, err := s.Platform(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDistro, err)
	}

	name := strings.TrimSpace(platform + " " + version)
	if name == "" {
		return "", ErrNoDistro
	}
	return name, nil
}

// Environment returns the desktop environment or window manager session
func (s *Source) Environment(ctx context.Context) (string, error) {
	for _, key := range []string{"XDG_CURRENT_DESKTOP", "DESKTOP_SESSION"} {
		if value := strings.TrimSpace(s.Getenv(key)); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("XDG_CURRENT_DESKTOP or DESKTOP_SESSION: %w", ErrEnvNotSet)
}

// Uptime returns the formatted system uptime
func (s *Source) Uptime(ctx context.Context) (string, error) {
	seconds, err := s.UptimeSeconds(ctx)
	if err != nil {
		return "", err
	}
	return FormatUptime(seconds), nil
}

// FormatUptime renders seconds as "<d>d <h>h <m>m", omitting zero days
func FormatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// Terminal returns the terminal emulator running rsfetch. When only shells
// lead up to init, the outermost process seen is reported instead.
func (s *Source) Terminal(ctx context.Context) (string, error) {
	if program := strings.TrimSpace(s.Getenv("TERM_PROGRAM")); program != "" {
		return program, nil
	}

	last := ""
	pid := int32(s.Getppid())
	for depth := 0; depth < maxProcessDepth && pid > 0; depth++ {
		name, ppid, err := s.Process(ctx, pid)
		if err != nil {
			break
		}

		// Login shells are reported as "-bash"
		base := strings.TrimPrefix(filepath.Base(name), "-")
		if base != "" && !shells[base] {
			return base, nil
		}
		if base != "" {
			last = base
		}
		if pid == 1 {
			break
		}
		pid = ppid
	}

	if last == "" {
		return models.NotAvailable, nil
	}
	return last, nil
}
