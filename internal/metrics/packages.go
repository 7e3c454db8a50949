package metrics

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/monify-labs/rsfetch/pkg/models"
)

// packageCounter counts the packages installed by one manager
type packageCounter func(ctx context.Context, s *Source) (int, error)

var packageManagers = map[string]packageCounter{
	"apk":       commandCounter(0, "apk", "info"),
	"apt":       commandCounter(0, "dpkg-query", "-f", ".\n", "-W"),
	"dpkg":      commandCounter(0, "dpkg-query", "-f", ".\n", "-W"),
	"dnf":       commandCounter(0, "rpm", "-qa"),
	"rpm":       commandCounter(0, "rpm", "-qa"),
	"yum":       commandCounter(0, "rpm", "-qa"),
	"zypper":    commandCounter(0, "rpm", "-qa"),
	"eopkg":     commandCounter(0, "eopkg", "li"),
	"flatpak":   commandCounter(0, "flatpak", "list"),
	"nix":       commandCounter(0, "nix-store", "-q", "--requisites", "/run/current-system/sw"),
	"pacman":    commandCounter(0, "pacman", "-Qq"),
	"pip":       commandCounter(2, "pip", "list"),
	"portage":   portageCounter("/var/db/pkg"),
	"slackware": dirCounter("/var/log/packages"),
	"xbps":      commandCounter(0, "xbps-query", "-l"),
	"void":      commandCounter(0, "xbps-query", "-l"),
}

// Packages returns the number of packages installed by manager.
// Unknown managers yield "N/A".
func (s *Source) Packages(ctx context.Context, manager string) (string, error) {
	counter, ok := packageManagers[strings.ToLower(strings.TrimSpace(manager))]
	if !ok {
		return models.NotAvailable, nil
	}

	count, err := counter(ctx, s)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(count), nil
}

// KnownPackageManager reports whether manager has a counter
func KnownPackageManager(manager string) bool {
	_, ok := packageManagers[strings.ToLower(strings.TrimSpace(manager))]
	return ok
}

// commandCounter counts output lines of a command, minus header lines
func commandCounter(header int, name string, args ...string) packageCounter {
	return func(ctx context.Context, s *Source) (int, error) {
		out, err := s.Run(ctx, name, args...)
		if err != nil {
			return 0, err
		}
		return max(countLines(out)-header, 0), nil
	}
}

// dirCounter counts the entries of a directory
func dirCounter(dir string) packageCounter {
	return func(ctx context.Context, s *Source) (int, error) {
		entries, err := s.ReadDir(dir)
		if err != nil {
			return 0, err
		}
		return len(entries), nil
	}
}

// portageCounter counts <category>/<package> directories
func portageCounter(root string) packageCounter {
	return func(ctx context.Context, s *Source) (int, error) {
		categories, err := s.ReadDir(root)
		if err != nil {
			return 0, err
		}

		count := 0
		for _, category := range categories {
			if !category.IsDir() {
				continue
			}
			pkgs, err := s.ReadDir(filepath.Join(root, category.Name()))
			if err != nil {
				return 0, err
			}
			for _, pkg := range pkgs {
				if pkg.IsDir() {
					count++
				}
			}
		}
		return count, nil
	}
}
