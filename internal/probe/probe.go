// Package probe inspects staged video files with ffprobe and classifies
// their presentation shape. The subprocess contract is: exit 0 with
// parseable JSON on success, non-zero with diagnostics on stderr
// otherwise. A file with no video stream is a distinct failure from a
// process-level one.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// AspectClass is the three-way presentation bucket used in placement
// keys: landscape, portrait, or other.
type AspectClass string

const (
	Landscape AspectClass = "landscape"
	Portrait  AspectClass = "portrait"
	Other     AspectClass = "other"
)

// ErrNoVideoStream is returned when ffprobe ran successfully but the
// file contains no video stream at all.
var ErrNoVideoStream = errors.New("no video streams found")

// Result holds the properties of the first video stream.
type Result struct {
	Width  int
	Height int
	Ratio  string // display aspect ratio as reported, e.g. "16:9"
}

// Class classifies the reported ratio string. Only the two canonical
// ratios map to landscape/portrait; anything else, including an absent
// ratio, is Other. No numeric fallback from width/height is attempted.
func (r Result) Class() AspectClass {
	return ClassifyRatio(r.Ratio)
}

// ClassifyRatio is total: it never fails for any probe output.
func ClassifyRatio(ratio string) AspectClass {
	switch ratio {
	case "16:9":
		return Landscape
	case "9:16":
		return Portrait
	default:
		return Other
	}
}

// Prober is the pluggable media-introspection capability. The concrete
// mechanism (external process, linked library, remote service) is
// swappable without touching pipeline logic.
type Prober interface {
	Probe(ctx context.Context, path string) (Result, error)
}

// FFProbe runs the ffprobe binary against local files.
type FFProbe struct {
	Bin string
}

// NewFFProbe returns an FFProbe using bin, or "ffprobe" from PATH when
// bin is empty.
func NewFFProbe(bin string) *FFProbe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFProbe{Bin: bin}
}

// Probe asks ffprobe for the first video stream's dimensions and display
// aspect ratio as JSON. Both pipes are drained to completion; a non-zero
// exit carries the process's stderr in the returned error.
func (f *FFProbe) Probe(ctx context.Context, path string) (Result, error) {
	cmd := exec.CommandContext(ctx, f.Bin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,display_aspect_ratio",
		"-of", "json",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("ffprobe %q: %s: %w", path, strings.TrimSpace(stderr.String()), err)
	}

	return ParseOutput(stdout.Bytes())
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	DisplayAspectRatio string `json:"display_aspect_ratio"`
}

// ParseOutput converts raw ffprobe JSON into a Result. Exported for
// testing without a real ffprobe binary.
func ParseOutput(data []byte) (Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	if len(raw.Streams) == 0 {
		return Result{}, ErrNoVideoStream
	}

	s := raw.Streams[0]
	return Result{
		Width:  s.Width,
		Height: s.Height,
		Ratio:  s.DisplayAspectRatio,
	}, nil
}
