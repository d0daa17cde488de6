package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kingstonaccess/server/internal/clients/nominatim"
	"github.com/kingstonaccess/server/internal/config"
)

func main() {
	var (
		query   = flag.String("query", "city hall kingston", "Free-text place query")
		limit   = flag.Int("limit", 5, "Maximum results")
		bounded = flag.Bool("bounded", true, "Restrict results to the Kingston viewbox")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Nominatim Client Test Tool\n\n")
		fmt.Printf("Tests the Nominatim place search client against the live API.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -query=\"grocery store\"\n", os.Args[0])
		fmt.Printf("  %s -query=\"princess street\" -limit=10 -bounded=false\n", os.Args[0])
		return
	}

	cfg := config.DefaultConfig()
	client := nominatim.NewClient(cfg.Places.BaseURL, cfg.Places.UserAgent)

	fmt.Printf("Nominatim Search Test\n")
	fmt.Printf("=====================\n")
	fmt.Printf("Query: %s\n", *query)
	fmt.Printf("Limit: %d\n", *limit)
	fmt.Printf("Bounded: %v\n\n", *bounded)

	box := cfg.Parking.Bounds.ToBox()
	boxArg := &box
	if !*bounded {
		boxArg = nil
	}

	places, err := client.Search(context.Background(), *query, *limit, boxArg)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("✅ Search successful, %d results\n\n", len(places))
	for i, place := range places {
		fmt.Printf("%2d. %s\n", i+1, place.Label)
		if place.Subtitle != "" {
			fmt.Printf("    %s\n", place.Subtitle)
		}
		fmt.Printf("    (%.6f, %.6f)  id=%s\n", place.Latitude, place.Longitude, place.ID)
	}
}
