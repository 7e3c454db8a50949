package ui

import (
	"fmt"
	"io"

	"github.com/monify-labs/rsfetch/internal/format"
	"github.com/monify-labs/rsfetch/pkg/models"
)

// WriteText prints the full display string for terminals without a display
func WriteText(w io.Writer, snap *models.Snapshot) error {
	_, err := fmt.Fprintln(w, format.Full(snap))
	return err
}
