package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/monify-labs/rsfetch/internal/config"
	"github.com/monify-labs/rsfetch/pkg/models"
)

// playerctlFormat renders the current track as "artist - title"
const playerctlFormat = "{{ artist }} - {{ title }}"

// Music returns the currently playing track from the configured backend.
// "N/A" is returned when the backend is disabled or nothing is playing.
func (s *Source) Music(ctx context.Context, backend string) (string, error) {
	var (
		out []byte
		err error
	)

	switch backend {
	case config.MusicNone, "":
		return models.NotAvailable, nil
	case config.MusicMPD:
		out, err = s.Run(ctx, "mpc", "current")
	case config.MusicPlayerctl:
		out, err = s.Run(ctx, "playerctl", "metadata", "--format", playerctlFormat)
		if err != nil && strings.Contains(err.Error(), "No players found") {
			return models.NotAvailable, nil
		}
	default:
		return "", fmt.Errorf("unsupported music backend %q", backend)
	}
	if err != nil {
		return "", err
	}

	track := strings.TrimSpace(string(out))
	if track == "" || track == "-" {
		return models.NotAvailable, nil
	}
	return track, nil
}
