package osm

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/osm"
)

// ReadFile imports an OSM file. Files ending in .osm are decoded as XML,
// everything else as PBF.
func ReadFile(ctx context.Context, path string, opts ...ParseOptions) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open osm file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".osm") {
		o := &osm.OSM{}
		if err := xml.NewDecoder(f).Decode(o); err != nil {
			return nil, fmt.Errorf("decode osm xml: %w", err)
		}
		return Extract(o, opts...), nil
	}

	res, err := Parse(ctx, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}
