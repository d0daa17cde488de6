package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/intent"
)

func main() {
	var (
		apiKey = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		model  = flag.String("model", "", "Model override (default from config)")
		text   = flag.String("text", "accessible parking near a grocery store", "Request text to parse")
		help   = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Intent Parser Test Tool\n\n")
		fmt.Printf("Parses a natural-language parking request into a structured intent.\n")
		fmt.Printf("Without an API key only the keyword fallback path runs.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		return
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}

	cfg := config.DefaultConfig()
	if *model == "" {
		*model = cfg.Intent.Model
	}

	fmt.Printf("Intent Parser Test\n")
	fmt.Printf("==================\n")
	fmt.Printf("Text: %s\n\n", *text)

	fmt.Printf("Fallback intent:\n")
	printIntent(intent.FallbackIntent(*text, ""))

	fmt.Printf("\nExpanded place queries:\n")
	for i, q := range intent.ExpandedPlaceQueries(*text) {
		fmt.Printf("  %d. %s\n", i+1, q)
	}

	if key == "" {
		fmt.Printf("\nNo API key set; skipping model parse.\n")
		return
	}

	parser := intent.NewParser(key, *model)
	parsed, err := parser.ParseIntent(context.Background(), *text, cfg.Parking.Bounds.ToBox())
	if err != nil {
		log.Fatalf("ParseIntent failed: %v", err)
	}

	fmt.Printf("\n✅ Model intent (%s):\n", *model)
	printIntent(parsed)
}

func printIntent(in intent.Intent) {
	encoded, err := json.MarshalIndent(in, "  ", "  ")
	if err != nil {
		log.Fatalf("Failed to encode intent: %v", err)
	}
	fmt.Printf("  %s\n", encoded)
}
