package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "point-distance":
		handlePointDistance()
	case "decode-polyline":
		handleDecodePolyline()
	case "encode-polyline":
		handleEncodePolyline()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handlePointDistance() {
	fs := flag.NewFlagSet("point-distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")

	fs.Parse(os.Args[2:])

	if *lat1 == 0 && *lng1 == 0 && *lat2 == 0 && *lng2 == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils point-distance --lat1 44.2312 --lng1 -76.4860 --lat2 44.2270 --lng2 -76.4930")
		fmt.Println("  (Distance between downtown Kingston and a waterfront lot)")
		os.Exit(1)
	}

	p1 := geo.Point{Latitude: *lat1, Longitude: *lng1}
	p2 := geo.Point{Latitude: *lat2, Longitude: *lng2}

	distance := geo.DistanceMeters(p1, p2)

	fmt.Printf("Distance between points:\n")
	fmt.Printf("  Point 1: (%.6f, %.6f)\n", p1.Latitude, p1.Longitude)
	fmt.Printf("  Point 2: (%.6f, %.6f)\n", p2.Latitude, p2.Longitude)
	fmt.Printf("  Distance: %.2f meters (%s)\n", distance, geo.FormatDistance(distance))
}

func handleDecodePolyline() {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	encoded := fs.String("polyline", "", "Encoded polyline string")

	fs.Parse(os.Args[2:])

	if *encoded == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils decode-polyline --polyline '_p~iF~ps|U_ulLnnqC_mqNvxq`@'")
		os.Exit(1)
	}

	points := geo.DecodePolyline(*encoded)
	fmt.Printf("Decoded %d points:\n", len(points))
	for i, p := range points {
		fmt.Printf("  %3d: (%.5f, %.5f)\n", i, p.Latitude, p.Longitude)
	}
}

func handleEncodePolyline() {
	fs := flag.NewFlagSet("encode-polyline", flag.ExitOnError)
	coords := fs.String("coords", "", "Semicolon-separated lat,lng pairs")

	fs.Parse(os.Args[2:])

	if *coords == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils encode-polyline --coords '44.2312,-76.4860;44.2270,-76.4930'")
		os.Exit(1)
	}

	var points []geo.Point
	for _, pair := range strings.Split(*coords, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		var lat, lng float64
		if _, err := fmt.Sscanf(pair, "%f,%f", &lat, &lng); err != nil {
			fmt.Printf("Invalid coordinate pair %q: %v\n", pair, err)
			os.Exit(1)
		}
		points = append(points, geo.Point{Latitude: lat, Longitude: lng})
	}

	fmt.Printf("Encoded: %s\n", geo.EncodePolyline(points))
}

func printUsage() {
	fmt.Println("Geo Utilities Test Tool")
	fmt.Println()
	fmt.Println("Usage: test-geo-utils <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  point-distance    Haversine distance between two points")
	fmt.Println("  decode-polyline   Decode an encoded polyline to coordinates")
	fmt.Println("  encode-polyline   Encode coordinates as a polyline")
	fmt.Println("  help              Show this help")
}
