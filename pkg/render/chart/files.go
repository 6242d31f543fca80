package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/errors"
)

// FormatJSON selects the frame JSON artifact in WriteFiles.
const FormatJSON = "json"

// ParseFormats splits a comma separated format list such as "svg,json".
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		switch f {
		case string(SVG), string(PNG), FormatJSON:
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, png or json)", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// WriteFiles writes the charts of f into dir in each format, plus the frame
// as JSON when "json" is requested. A non-empty base prefixes every file
// name. It returns the written paths in order.
func WriteFiles(dir, base string, f *dashboard.Frame, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	name := func(stem, ext string) string {
		if base != "" {
			stem = base + "-" + stem
		}
		return filepath.Join(dir, stem+"."+ext)
	}

	var paths []string
	for _, format := range formats {
		if format == FormatJSON {
			p := name("frame", "json")
			if err := writeJSON(p, f); err != nil {
				return paths, err
			}
			paths = append(paths, p)
			continue
		}
		imgs, err := RenderAll(f, Format(format))
		if err != nil {
			return paths, err
		}
		for _, n := range Names() {
			p := name(n, format)
			if err := os.WriteFile(p, imgs[n], 0o644); err != nil {
				return paths, fmt.Errorf("write %s: %w", p, err)
			}
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func writeJSON(path string, f *dashboard.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
