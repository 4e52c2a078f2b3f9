package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trailmap/pkg/api"
	"trailmap/pkg/atlas"
	"trailmap/pkg/config"
	"trailmap/pkg/osm"
	"trailmap/pkg/place"
	"trailmap/pkg/synth"
)

func main() {
	_ = godotenv.Load(".env")

	configPath := flag.String("config", "", "Path to YAML config (default: search standard locations)")
	osmPath := flag.String("osm", "", "OSM file to import (.osm XML or .pbf), overrides config")
	addr := flag.String("addr", "", "Listen address, overrides config")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	trim := flag.Bool("trim", false, "Simplify the network after import")
	synthSeed := flag.Uint64("synth-seed", 0, "Populate with synthetic data from this seed when no OSM file is given")
	flag.Parse()

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if *configPath != "" {
		cfg, path, err = config.LoadFromPath(*configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path != "" {
		log.Printf("Loaded config from %s", path)
	}
	if *osmPath != "" {
		cfg.Import.OSMPath = *osmPath
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *corsOrigin != "" {
		cfg.Server.CORSOrigin = *corsOrigin
	}
	if *trim {
		cfg.Import.Trim = true
	}

	start := time.Now()
	a := atlas.New()

	switch {
	case cfg.Import.OSMPath != "":
		log.Printf("Importing %s...", cfg.Import.OSMPath)
		var opts osm.ParseOptions
		if b := cfg.Import.BBox; len(b) == 4 {
			opts.BBox = osm.BBox{MinLat: b[0], MaxLat: b[1], MinLng: b[2], MaxLng: b[3]}
		}
		res, err := osm.ReadFile(context.Background(), cfg.Import.OSMPath, opts)
		if err != nil {
			log.Fatalf("Failed to import: %v", err)
		}
		st := a.Import(res)
		log.Printf("Imported %d ways (%d rejected), %d places (%d rejected)",
			st.Ways, st.RejectedWays, st.Places, st.RejectedPlaces)
	case *synthSeed != 0:
		gen := synth.New(*synthSeed)
		specs, _ := gen.Network(2000, 800, 50000)
		rejected := 0
		for _, w := range specs {
			if !a.AddWay(w.ID, w.Coords) {
				rejected++
			}
		}
		reg := place.NewRegistry()
		gen.Places(reg, 500, 0, 50000)
		reg.Each(func(p place.Place) bool {
			a.AddPlace(p.ID, p.Name, p.Type, p.Coord)
			return true
		})
		log.Printf("Generated %d synthetic ways (%d rejected), %d places", len(specs)-rejected, rejected, reg.Count())
	default:
		log.Println("No OSM file configured, starting with an empty atlas")
	}

	if cfg.Import.Trim {
		saved := a.TrimWays()
		log.Printf("Trimmed network, %d m of way length removed", saved)
	}

	st := a.Stats()
	log.Printf("Ready in %s: %d ways, %d crossroads, %d components, %d places",
		time.Since(start).Round(time.Millisecond), st.Ways, st.Crossroads, st.Components, st.Places)

	srv := api.NewServer(cfg.Server, api.NewHandlers(a))
	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
