// CollagePack generates optimized photo collages.
//
// Packs a directory of images into the tightest-looking montage it can find,
// using either independent Monte-Carlo trials or a genetic algorithm over
// image subsets.
//
// Build:
//   go build -o collagepack ./cmd/collagepack
//
// Usage:
//   collagepack [flags] <directory>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/piwi3910/CollagePack/internal/collage"
	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/engine"
	"github.com/piwi3910/CollagePack/internal/export"
	"github.com/piwi3910/CollagePack/internal/model"
	"github.com/piwi3910/CollagePack/internal/project"
)

func main() {
	log.SetFlags(0)

	configPath := project.DefaultConfigPath()
	appConfig, err := project.LoadAppConfig(configPath)
	if err != nil {
		log.Printf("warning: could not read %s: %v", configPath, err)
		appConfig = model.DefaultAppConfig()
	}

	settings := model.DefaultSettings()
	appConfig.ApplyToSettings(&settings)

	var (
		filter        = flag.String("f", "", "filter images by extension (e.g. .jpg) or filename substring")
		standardWidth = flag.Int("w", 0, "scale every image to this width before packing (0 = keep size)")
		mode          = flag.String("mode", settings.Mode.String(), "search strategy: genetic or random")
		trials        = flag.Int("trials", settings.NumTrials, "number of Monte-Carlo trials (random mode)")
		population    = flag.Int("population", settings.PopulationSize, "population size (genetic mode)")
		generations   = flag.Int("generations", settings.Generations, "number of generations (genetic mode)")
		minImages     = flag.Int("min", settings.MinImages, "minimum images per collage")
		maxImages     = flag.Int("max", settings.MaxImages, "maximum images per collage")
		mutation      = flag.Float64("mutation", settings.MutationRate, "mutation rate in [0,1]")
		crossover     = flag.Float64("crossover", settings.CrossoverRate, "crossover rate in [0,1]")
		padding       = flag.Int("padding", settings.Padding, "padding between images in pixels")
		aspect        = flag.Float64("aspect", settings.DesiredAspectRatio, "desired canvas aspect ratio (1.0 = square)")
		workers       = flag.Int("workers", settings.Workers, "evaluation workers (0 = one per CPU)")
		seed          = flag.Int64("seed", settings.Seed, "random seed")
		output        = flag.String("o", "output.jpg", "output image file (.jpg or .png)")
		reportPath    = flag.String("report", "", "also write a PDF layout report to this path")
		manifestPath  = flag.String("manifest", "", "also write a JSON run manifest to this path")
	)
	flag.Parse()

	dir := flag.Arg(0)
	if dir == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <directory>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	parsedMode, err := model.ParseSearchMode(*mode)
	if err != nil {
		log.Fatal(err)
	}
	settings.Mode = parsedMode
	settings.NumTrials = *trials
	settings.PopulationSize = *population
	settings.Generations = *generations
	settings.MinImages = *minImages
	settings.MaxImages = *maxImages
	settings.MutationRate = *mutation
	settings.CrossoverRate = *crossover
	settings.Padding = *padding
	settings.DesiredAspectRatio = *aspect
	settings.Workers = *workers
	settings.Seed = *seed

	if err := settings.Validate(); err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	log.Printf("loading images from %s", dir)
	c, err := corpus.Load(dir, corpus.Options{
		Filter:        *filter,
		StandardWidth: *standardWidth,
		Warn: func(path string, err error) {
			log.Printf("skipping %s: %v", path, err)
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d images", c.Len())

	winner, err := engine.Search(c, settings, func(round int, best float64) {
		log.Printf("%s: round %d, best fitness %.4f", settings.Mode, round, best)
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("best layout: %d images, %dx%d px, %.1f%% free, aspect %.3f",
		len(winner.Layout.Placements), winner.Layout.Width, winner.Layout.Height,
		winner.Layout.FreePercent(), winner.Layout.AspectRatio())

	canvas, err := collage.Compose(c, *winner.Layout, collage.Options{})
	if err != nil {
		log.Fatal(err)
	}
	if err := export.WriteImage(*output, canvas); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *output)

	if *reportPath != "" {
		manifest := project.NewManifest(dir, settings, winner)
		if err := export.WriteReport(*reportPath, *winner.Layout, settings, manifest.RunID); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *reportPath)
		if *manifestPath != "" {
			if err := project.SaveManifest(*manifestPath, manifest); err != nil {
				log.Fatal(err)
			}
			log.Printf("wrote %s", *manifestPath)
		}
	} else if *manifestPath != "" {
		if err := project.SaveManifest(*manifestPath, project.NewManifest(dir, settings, winner)); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *manifestPath)
	}

	project.RememberDirectory(&appConfig, dir)
	if err := project.SaveAppConfig(configPath, appConfig); err != nil {
		log.Printf("warning: could not save %s: %v", configPath, err)
	}
}
