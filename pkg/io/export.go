package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/errors"
)

// Format is an output encoding for results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatJSON, FormatDOT, FormatSVG}

// ParseFormat validates s as a Format. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(s)
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want text, json, dot or svg)", s)
	}
	return f, nil
}

// Placement controls where the text format prints the total distance.
type Placement string

const (
	PlaceFirst Placement = "first"
	PlaceLast  Placement = "last"
	PlaceNone  Placement = "none"
)

// ParsePlacement validates s as a Placement. The empty string selects
// PlaceFirst.
func ParsePlacement(s string) (Placement, error) {
	switch p := Placement(s); p {
	case "":
		return PlaceFirst, nil
	case PlaceFirst, PlaceLast, PlaceNone:
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown distance placement %q (want first, last or none)", s)
}

// Options configures Write.
type Options struct {
	Format   Format
	Distance Placement
}

// Write encodes res to w in the format selected by opts.
func Write(res *aggregate.Result, w io.Writer, opts Options) error {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return WriteJSON(res, w)
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(res))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ToDOT(res))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return WriteText(res, w, opts.Distance)
	}
}

// Export writes res to a file at path in the format selected by opts.
// This is a convenience wrapper around [Write] for file-based output.
func Export(res *aggregate.Result, path string, opts Options) error {
	var buf bytes.Buffer
	if err := Write(res, &buf, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteText writes the distance as %.6f and the consensus ranking one item
// per line. place selects whether the distance line comes first, last or not
// at all.
func WriteText(res *aggregate.Result, w io.Writer, place Placement) error {
	place, err := ParsePlacement(string(place))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if place == PlaceFirst {
		fmt.Fprintf(&buf, "%.6f\n", res.Distance)
	}
	for _, item := range res.Ranking {
		buf.WriteString(item)
		buf.WriteByte('\n')
	}
	if place == PlaceLast {
		fmt.Fprintf(&buf, "%.6f\n", res.Distance)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteJSON encodes res as indented JSON and writes it to w.
func WriteJSON(res *aggregate.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
