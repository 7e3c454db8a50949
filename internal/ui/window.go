// Package ui presents a Snapshot in a fyne window or on a terminal.
package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/monify-labs/rsfetch/internal/config"
	"github.com/monify-labs/rsfetch/internal/format"
	"github.com/monify-labs/rsfetch/pkg/models"
)

const (
	appID        = "cloud.monify.rsfetch"
	summaryTitle = "All Information"
)

// View holds the widgets showing one Snapshot
type View struct {
	summary *widget.Accordion
	details *widget.Entry
	entries []*widget.Entry
	image   *canvas.Image
	content fyne.CanvasObject
}

// NewView builds the widget tree for snap. img may be nil.
func NewView(snap *models.Snapshot, img image.Image, imageSize float32) *View {
	v := &View{}

	// Top panel: collapsed block with the full text
	v.details = staticEntry(widget.NewMultiLineEntry(), format.Full(snap))
	v.details.Wrapping = fyne.TextWrapOff
	v.details.SetMinRowsVisible(8)
	v.summary = widget.NewAccordion(widget.NewAccordionItem(summaryTitle, v.details))

	// Central panel: one heading and value per field
	column := container.NewVBox()
	for _, field := range format.Fields(snap) {
		entry := staticEntry(widget.NewEntry(), field.Value)
		v.entries = append(v.entries, entry)
		column.Add(heading(field.Heading))
		column.Add(entry)
	}
	center := container.NewVScroll(column)

	var left fyne.CanvasObject
	if img != nil {
		v.image = canvas.NewImageFromImage(img)
		v.image.FillMode = canvas.ImageFillContain
		v.image.SetMinSize(fyne.NewSize(imageSize, imageSize))
		left = v.image
	}

	v.content = container.NewBorder(v.summary, nil, left, nil, center)
	return v
}

// Content returns the root object to place in a window
func (v *View) Content() fyne.CanvasObject {
	return v.content
}

// Run opens the rsfetch window and blocks until it is closed
func Run(cfg *config.Config, snap *models.Snapshot, img image.Image) {
	a := app.NewWithID(appID)
	w := a.NewWindow(config.AppName)

	view := NewView(snap, img, cfg.Window.ImageSize)
	w.SetContent(view.Content())
	w.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	w.SetFixedSize(true)

	w.ShowAndRun()
}

// staticEntry shows value and reverts any edit back to it
func staticEntry(e *widget.Entry, value string) *widget.Entry {
	e.SetText(value)
	e.OnChanged = func(s string) {
		if s != value {
			e.SetText(value)
		}
	}
	return e
}

func heading(text string) fyne.CanvasObject {
	return widget.NewRichText(&widget.TextSegment{
		Text:  text,
		Style: widget.RichTextStyleHeading,
	})
}
