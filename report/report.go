// Copyright 2025, Kerby Shedden and the Flute contributors.

// Package report manages the combined multi-page report document.
// The document is an explicit resource: opened once at pipeline
// start, appended to by every stage, and guaranteed closed on every
// exit path.  Appends are serialized, so stages that fan out across
// worker tasks can share one document.

package report

import (
	"os"
	"sync"

	"github.com/go-echarts/go-echarts/v2/components"
)

// Document is the combined report being assembled.  All panels land
// in one flex-layout page so the rendered file reads as a continuous
// multi-page document.
type Document struct {
	mu     sync.Mutex
	page   *components.Page
	path   string
	closed bool
	panels int
}

// Open creates a document that will be rendered to path on Close.
// The parent directory must already exist.
func Open(path string) *Document {

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	return &Document{page: page, path: path}
}

// Charter is the chart interface accepted by AddPanels, satisfied by
// every chart type the plot package produces.
type Charter = components.Charter

// AddPanels appends charts to the document.  Safe for concurrent
// use; panels added after Close are dropped.
func (d *Document) AddPanels(cs ...Charter) {

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.page.AddCharts(cs...)
	d.panels += len(cs)
}

// Panels is the number of panels appended so far.
func (d *Document) Panels() int {

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.panels
}

// Close renders the document to its file.  Close is idempotent:
// second and later calls are no-ops, so it can sit in a defer while
// the happy path also closes explicitly.
func (d *Document) Close() error {

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	fid, err := os.Create(d.path)
	if err != nil {
		return err
	}
	defer fid.Close()

	return d.page.Render(fid)
}

// Path is the file the document renders to.
func (d *Document) Path() string {
	return d.path
}
