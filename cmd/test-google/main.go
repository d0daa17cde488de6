package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kingstonaccess/server/internal/clients/google"
	"github.com/kingstonaccess/server/internal/lib/geo"
)

func main() {
	var (
		apiKey    = flag.String("api-key", "", "Google Routes API key (or set GOOGLE_API_KEY env var)")
		originStr = flag.String("origin", "44.231200,-76.486000", "Origin coordinates (lat,lng)")
		destStr   = flag.String("dest", "44.227000,-76.493000", "Destination coordinates (lat,lng)")
		mode      = flag.String("mode", "drive", "Travel mode: drive or walk")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Google Routes API Test Tool\n\n")
		fmt.Printf("Tests the Google Routes API client implementation.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -api-key=YOUR_KEY\n", os.Args[0])
		fmt.Printf("  %s -mode=walk -origin=\"44.2312,-76.4860\" -dest=\"44.2286,-76.4811\"\n", os.Args[0])
		fmt.Printf("  GOOGLE_API_KEY=your_key %s\n", os.Args[0])
		return
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		log.Fatal("Google Routes API key required. Use -api-key flag or GOOGLE_API_KEY env var")
	}

	var origin, destination geo.Point
	if _, err := fmt.Sscanf(*originStr, "%f,%f", &origin.Latitude, &origin.Longitude); err != nil {
		log.Fatalf("Invalid origin coordinates: %v", err)
	}
	if _, err := fmt.Sscanf(*destStr, "%f,%f", &destination.Latitude, &destination.Longitude); err != nil {
		log.Fatalf("Invalid destination coordinates: %v", err)
	}

	travelMode := google.TravelModeDrive
	if *mode == "walk" {
		travelMode = google.TravelModeWalk
	}

	fmt.Printf("Google Routes API Test\n")
	fmt.Printf("======================\n")
	fmt.Printf("Origin: %.6f, %.6f\n", origin.Latitude, origin.Longitude)
	fmt.Printf("Destination: %.6f, %.6f\n", destination.Latitude, destination.Longitude)
	fmt.Printf("Mode: %s\n\n", travelMode)

	client := google.NewClient(key)

	fmt.Printf("Testing ComputeRoute...\n")
	route, err := client.ComputeRoute(context.Background(), origin, destination, travelMode)
	if err != nil {
		log.Fatalf("ComputeRoute failed: %v", err)
	}

	fmt.Printf("✅ ComputeRoute successful!\n")
	fmt.Printf("Distance: %s\n", geo.FormatDistance(float64(route.DistanceMeters)))
	fmt.Printf("Duration: %.1f minutes\n", float64(route.DurationSeconds)/60.0)

	points := geo.DecodePolyline(route.Polyline)
	fmt.Printf("Polyline: %d chars, %d decoded points\n", len(route.Polyline), len(points))
}
