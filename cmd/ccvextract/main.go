package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"go-ccv-extractor/internal/ccv"
	"go-ccv-extractor/pkg/config"
	"go-ccv-extractor/pkg/validation"
)

// checkParams runs the merged options through the same limits the HTTP API
// enforces, so a stray flag cannot drive an oversized vector allocation.
func checkParams(options ccv.ExtractOptions, width, height int) error {
	issues := validation.NewParamValidator().ValidateParams(validation.ExtractionParams{
		BinsPerChannel:    options.BinsPerChannel,
		SmoothingWindow:   options.SmoothingWindow,
		CoherenceFraction: options.CoherenceFraction,
		Width:             width,
		Height:            height,
	})
	if len(issues) > 0 {
		return fmt.Errorf("%s", issues[0].Message)
	}
	return nil
}

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Path to the input image (png or jpeg)")
	presetPath := flag.String("preset", "", "Optional YAML preset file with extraction parameters")
	bins := flag.Int("bins", 0, "Bins per channel (overrides preset)")
	window := flag.Int("window", 0, "Smoothing window size, odd (overrides preset)")
	fraction := flag.Float64("fraction", -1, "Coherence threshold fraction (overrides preset)")
	grouping := flag.String("grouping", "", "Grouping mode: legacy or unionfind (overrides preset)")
	vectorOnly := flag.Bool("vector-only", false, "Print only the raw vector, space separated")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	preset := config.Default()
	if *presetPath != "" {
		var err error
		preset, err = config.Load(*presetPath)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
	}

	options := ccv.DefaultOptions()
	options.BinsPerChannel = preset.Extraction.BinsPerChannel
	options.SmoothingWindow = preset.Extraction.SmoothingWindow
	options.CoherenceFraction = preset.Extraction.CoherenceFraction
	options.Grouping = ccv.GroupingMode(preset.Extraction.Grouping)
	options.UseWorkerPool = preset.Runtime.UseWorkerPool
	options.MaxWorkers = preset.Runtime.MaxWorkers

	// Flag overrides win over the preset
	if *bins > 0 {
		options.BinsPerChannel = *bins
	}
	if *window > 0 {
		options.SmoothingWindow = *window
	}
	if *fraction >= 0 {
		options.CoherenceFraction = *fraction
	}
	if *grouping != "" {
		options.Grouping = ccv.GroupingMode(*grouping)
	}

	file, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		log.Fatalf("Failed to decode image: %v", err)
	}

	bounds := img.Bounds()
	if err := checkParams(options, bounds.Dx(), bounds.Dy()); err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}

	extractor, err := ccv.NewExtractor()
	if err != nil {
		log.Fatalf("Failed to create extractor: %v", err)
	}
	defer extractor.Close()

	result, err := extractor.ExtractWithOptions(img, options)
	if err != nil {
		log.Fatalf("Extraction failed for %s: %v", *inputPath, err)
	}

	if *vectorOnly {
		for i, v := range result.Vector {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(v)
		}
		fmt.Println()
		return
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(encoded))
}
