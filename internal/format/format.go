// Package format turns a Snapshot into display text.
package format

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/monify-labs/rsfetch/pkg/models"
)

// labelWidth is the column at which values start ("Environment: ")
const labelWidth = 13

// Field is one heading and value pair shown in the central panel
type Field struct {
	Heading string
	Value   string
}

// line is one labelled row of the full display string
type line struct {
	label string
	value string
}

// Full returns the multi-line display string, one "Label: value" per row.
// List metrics produce one row per entry. There is no trailing newline.
func Full(snap *models.Snapshot) string {
	rows := lines(snap)

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, runewidth.FillRight(r.label+":", labelWidth)+r.value)
	}
	return strings.Join(out, "\n")
}

// Fields returns the heading/value pairs in display order.
// List metrics collapse into one comma-separated field.
func Fields(snap *models.Snapshot) []Field {
	return []Field{
		{"CPU", snap.CPU},
		{"Device", snap.Device},
		{"Distro", snap.Distro},
		{"Editor", snap.Editor},
		{"Environment", snap.Environment},
		{"GPU", joinList(snap.GPUs)},
		{"Memory", snap.Memory},
		{"Music", snap.Music},
		{"Packages", snap.Packages},
		{"Temperatures", joinList(snap.Temperatures)},
		{"Terminal", snap.Terminal},
		{"Uptime", snap.Uptime},
		{"User", snap.User},
	}
}

func lines(snap *models.Snapshot) []line {
	rows := []line{
		{"CPU", snap.CPU},
		{"Device", snap.Device},
		{"Distro", snap.Distro},
		{"Editor", snap.Editor},
		{"Environment", snap.Environment},
	}
	rows = appendList(rows, "GPU", snap.GPUs)
	rows = append(rows,
		line{"Memory", snap.Memory},
		line{"Music", snap.Music},
		line{"Packages", snap.Packages},
	)
	rows = appendList(rows, "Temperature", snap.Temperatures)
	return append(rows,
		line{"Terminal", snap.Terminal},
		line{"Uptime", snap.Uptime},
		line{"User", snap.User},
	)
}

// appendList adds one row per entry, or a single N/A row for an empty list
func appendList(rows []line, label string, values []string) []line {
	if len(values) == 0 {
		return append(rows, line{label, models.NotAvailable})
	}
	for _, v := range values {
		rows = append(rows, line{label, v})
	}
	return rows
}

func joinList(values []string) string {
	if len(values) == 0 {
		return models.NotAvailable
	}
	return strings.Join(values, ", ")
}
