package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/snaplingo/snaplingo/internal/config"
	"github.com/snaplingo/snaplingo/internal/imaging"
	"github.com/snaplingo/snaplingo/internal/ocr"
	"github.com/snaplingo/snaplingo/internal/pipeline"
	"github.com/snaplingo/snaplingo/internal/translate"
	"github.com/snaplingo/snaplingo/internal/vision"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("snaplingo %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "set-key":
			runSetKey(os.Args[2:])
			return
		case "set-target":
			runSetTarget(os.Args[2:])
			return
		}
	}

	runTranslate(os.Args[1:])
}

func printUsage() {
	fmt.Println("snaplingo - translate text captured from screen images")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snaplingo [options] <image>      recognize and translate an image file")
	fmt.Println("  snaplingo set-key <api-key>      store the Google Cloud API key")
	fmt.Println("  snaplingo set-target <code>      store the target language (default: ja)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --region x1,y1,x2,y2   crop the capture region before recognition")
	fmt.Println("  --target <code>        target language for this run only")
	fmt.Println("  --version, -v          print version information")
	fmt.Println("  --help, -h             print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s           API key (overrides stored settings)\n", config.EnvAPIKey)
	fmt.Printf("  %s   target language (overrides stored settings)\n", config.EnvTargetLanguage)
	fmt.Println("  SNAPLINGO_LOG_LEVEL=debug   enable debug logging")
}

func runSetKey(args []string) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		log.Fatal("usage: snaplingo set-key <api-key>")
	}
	store := mustStore()
	settings, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	settings.APIKey = strings.TrimSpace(args[0])
	if err := store.Save(settings); err != nil {
		log.Fatalf("Failed to save settings: %v", err)
	}
	fmt.Println("API key saved")
}

func runSetTarget(args []string) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		log.Fatal("usage: snaplingo set-target <language-code>")
	}
	store := mustStore()
	settings, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	settings.TargetLanguage = strings.TrimSpace(args[0])
	if err := store.Save(settings); err != nil {
		log.Fatalf("Failed to save settings: %v", err)
	}
	fmt.Printf("Target language set to %s\n", settings.TargetLanguage)
}

func runTranslate(args []string) {
	flags := flag.NewFlagSet("snaplingo", flag.ExitOnError)
	region := flags.String("region", "", "crop region x1,y1,x2,y2 before recognition")
	target := flags.String("target", "", "target language for this run")
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}
	if flags.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load(mustStore())
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	img, err := imaging.Load(flags.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	if *region != "" {
		x1, y1, x2, y2, err := parseRegion(*region)
		if err != nil {
			log.Fatalf("Invalid region: %v", err)
		}
		img, err = imaging.CropRegion(img, x1, y1, x2, y2)
		if err != nil {
			log.Fatalf("Failed to crop region: %v", err)
		}
	}

	engine, err := ocr.NewTesseractEngine()
	if err != nil {
		log.Fatalf("Local OCR unavailable: %v", err)
	}

	var cloud ocr.CloudRecognizer
	if cfg.APIKey != "" {
		cloud = vision.NewClient(cfg.APIKey)
	}

	targetLang := cfg.TargetLanguage
	if *target != "" {
		targetLang = *target
	}

	resolver := translate.NewResolver(translate.NewClient(cfg.APIKey), cfg.TargetLanguage)
	pipe := pipeline.New(ocr.NewCascade(cloud, engine), resolver, targetLang)

	// A new capture supersedes any pending work; interrupting the process
	// cancels the in-flight remote call the same way.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := pipe.Run(ctx, img)
	if err != nil {
		if out != nil {
			// Translation failed; still show what recognition produced.
			fmt.Println(out.Text)
			log.Fatalf("Translation error: %v", err)
		}
		log.Fatalf("Recognition error: %v", err)
	}

	fmt.Println(out.TranslatedText)
	if out.SourceLanguage != "" {
		log.Printf("Detected source language: %s", out.SourceLanguage)
	}
}

func mustStore() *config.Store {
	path, err := config.DefaultStorePath()
	if err != nil {
		log.Fatalf("Failed to resolve settings path: %v", err)
	}
	return config.NewStore(path)
}

func parseRegion(s string) (x1, y1, x2, y2 int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected x1,y1,x2,y2, got %q", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		vals[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("bad coordinate %q: %w", p, err)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
