package parking

import (
	"fmt"
	"io"

	kml "github.com/twpayne/go-kml/v2"
)

// WriteKML writes the spot list as a KML document, one placemark per spot,
// for use in Google Earth or any KML-aware GIS tool.
func WriteKML(w io.Writer, name string, spots []Spot) error {
	elements := []kml.Element{kml.Name(name)}
	for _, spot := range spots {
		elements = append(elements, kml.Placemark(
			kml.Name(spot.Label),
			kml.Description(spot.Describe()),
			kml.Point(
				kml.Coordinates(kml.Coordinate{
					Lon: spot.Longitude,
					Lat: spot.Latitude,
				}),
			),
		))
	}

	doc := kml.KML(kml.Document(elements...))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}
