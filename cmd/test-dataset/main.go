package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
	"github.com/kingstonaccess/server/internal/parking"
)

func main() {
	var (
		path = flag.String("path", "", "Dataset file (.csv, .json or .geojson); default from config")
		kml  = flag.Bool("kml", false, "Write KML for the loaded spots to stdout")
		help = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Parking Dataset Test Tool\n\n")
		fmt.Printf("Loads a parking dataset and reports what was parsed.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		return
	}

	cfg := config.DefaultConfig()
	if *path == "" {
		*path = cfg.Parking.DatasetPath
	}

	result, err := parking.LoadFromFile(*path)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	if *kml {
		if err := parking.WriteKML(os.Stdout, "Accessible Parking", result.Spots); err != nil {
			log.Fatalf("KML export failed: %v", err)
		}
		return
	}

	fmt.Printf("Parking Dataset Test\n")
	fmt.Printf("====================\n")
	fmt.Printf("Source: %s\n", result.Source)
	fmt.Printf("Spots: %d\n\n", len(result.Spots))

	bounds := cfg.Parking.Bounds.ToBox()
	outside := 0
	for _, spot := range result.Spots {
		if !bounds.Contains(spot.Point()) {
			outside++
		}
	}
	fmt.Printf("Within city bounds: %d\n", len(result.Spots)-outside)
	fmt.Printf("Outside city bounds: %d\n\n", outside)

	downtown := cfg.Parking.DowntownCenter.ToPoint()
	shown := len(result.Spots)
	if shown > 10 {
		shown = 10
	}
	for _, spot := range result.Spots[:shown] {
		d := geo.DistanceMeters(downtown, spot.Point())
		fmt.Printf("  %-12s %-32s (%.5f, %.5f)  %s from downtown\n",
			spot.ID, spot.Label, spot.Latitude, spot.Longitude, geo.FormatDistance(d))
	}
	if shown < len(result.Spots) {
		fmt.Printf("  ... and %d more\n", len(result.Spots)-shown)
	}
}
