package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-organizer/internal/ai"
	"github.com/kozaktomas/photo-organizer/internal/cluster"
	"github.com/kozaktomas/photo-organizer/internal/config"
	"github.com/kozaktomas/photo-organizer/internal/embedding"
	"github.com/kozaktomas/photo-organizer/internal/events"
	"github.com/kozaktomas/photo-organizer/internal/geo"
	"github.com/kozaktomas/photo-organizer/internal/ocr"
	"github.com/kozaktomas/photo-organizer/internal/organizer"
	"github.com/kozaktomas/photo-organizer/internal/scanner"
	"github.com/kozaktomas/photo-organizer/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a photo directory and organize its contents",
	Long: `Scan a directory of photos. Each image is classified, faces are
detected and clustered, GPS coordinates are resolved to places, and
text is extracted from documents and screenshots. Records are saved
to the local database.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("provider", "heuristic", "Classifier to use: openai, gemini, heuristic")
	scanCmd.Flags().Bool("offline", false, "Use the built-in offline geocoder instead of Nominatim")
	scanCmd.Flags().Bool("no-embedding", false, "Skip the face embedding server and record whole-image placeholders")
	scanCmd.Flags().Bool("ocr", false, "Extract text from documents and screenshots with tesseract")
	scanCmd.Flags().String("clusterer", "dbscan", "Face clustering strategy: dbscan, sequential")
	scanCmd.Flags().Float64("eps", cluster.DefaultEps, "Neighborhood radius for face clustering")
	scanCmd.Flags().Int("min-samples", cluster.DefaultMinSamples, "Minimum cluster size for face clustering")
	scanCmd.Flags().String("group-by", "", "Print grouping after the scan: face, event, city, state, country")
	scanCmd.Flags().Float64("gap", events.DefaultGapHours, "Hours between photos that start a new event")
	scanCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
	scanCmd.Flags().Int("limit", 0, "Limit number of photos to process (0 = no limit)")
	scanCmd.Flags().Int("concurrency", 4, "Number of files scanned in parallel")
	scanCmd.Flags().Bool("dry-run", false, "Scan without writing to the database")
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg := config.Load()

	providerName := mustGetString(cmd, "provider")
	offline := mustGetBool(cmd, "offline")
	noEmbedding := mustGetBool(cmd, "no-embedding")
	useOCR := mustGetBool(cmd, "ocr")
	clustererName := mustGetString(cmd, "clusterer")
	eps := mustGetFloat64(cmd, "eps")
	minSamples := mustGetInt(cmd, "min-samples")
	groupBy := mustGetString(cmd, "group-by")
	gap := mustGetFloat64(cmd, "gap")
	dbPath := mustGetString(cmd, "db")
	concurrency := mustGetInt(cmd, "concurrency")
	dryRun := mustGetBool(cmd, "dry-run")

	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	classifier, err := buildClassifier(cmd.Context(), cfg, providerName)
	if err != nil {
		return err
	}

	var embedder embedding.FaceEmbedder
	if noEmbedding {
		embedder = embedding.NewNullEmbedder(cfg.Embedding.Dim)
	} else {
		embedder = embedding.NewClient(cfg.Embedding.URL)
	}

	var geocoder geo.Geocoder
	if offline {
		geocoder = geo.NewOfflineGeocoder()
	} else {
		geocoder = geo.NewNominatimGeocoder(cfg.Geocoder.URL, cfg.Geocoder.UserAgent)
	}

	var extractor ocr.TextExtractor = ocr.NullExtractor{}
	if useOCR {
		tess := ocr.TesseractExtractor{}
		if !tess.Available() {
			return errors.New("tesseract binary not found, install it or drop --ocr")
		}
		extractor = tess
	}

	var sink organizer.RecordSink
	if !dryRun {
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer st.Close()
		sink = st
	}

	// Handle Ctrl+C
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	paths, err := scanner.ListImages(dir)
	if err != nil {
		return err
	}
	if limit := mustGetInt(cmd, "limit"); limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	if len(paths) == 0 {
		fmt.Println("No images found.")
		return nil
	}

	var grouper organizer.FaceGrouper
	switch clustererName {
	case "dbscan":
		grouper = cluster.NewDensityClusterer(eps, minSamples)
	case "sequential":
		// Every face becomes its own cluster. Useful when embeddings
		// come from the null embedder and carry no signal.
		grouper = cluster.SequentialClusterer{}
	default:
		return fmt.Errorf("unknown clusterer: %s (supported: dbscan, sequential)", clustererName)
	}

	org := &organizer.Organizer{
		Source: &scanner.Scanner{
			Classifier: classifier,
			Embedder:   embedder,
			Geocoder:   geocoder,
			Extractor:  extractor,
		},
		Grouper: grouper,
		ClusterFunc: func(records []*organizer.PhotoRecord, grouper organizer.FaceGrouper) error {
			return cluster.Faces(records, grouper)
		},
		Sink: sink,
	}

	result, err := org.Run(ctx, paths, organizer.Options{
		Concurrency: concurrency,
		ShowBar:     true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nScanned %d photos (%d faces) in run %s\n",
		len(result.Records), result.FaceCount, result.RunID)
	for _, scanErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", scanErr)
	}

	if groupBy != "" {
		return printGrouping(result.Records, groupBy, gap)
	}
	return nil
}

func buildClassifier(ctx context.Context, cfg *config.Config, providerName string) (ai.Classifier, error) {
	switch providerName {
	case "openai":
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		return ai.NewOpenAIClassifier(cfg.OpenAI.Token), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		classifier, err := ai.NewGeminiClassifier(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini classifier: %w", err)
		}
		return classifier, nil
	case "heuristic":
		return ai.HeuristicClassifier{}, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, gemini, heuristic)", providerName)
	}
}

// printGrouping writes the requested grouping as JSON so the output can
// be piped into other tools.
func printGrouping(records []*organizer.PhotoRecord, groupBy string, gap float64) error {
	pathsOf := func(recs []*organizer.PhotoRecord) []string {
		paths := make([]string, len(recs))
		for i, r := range recs {
			paths[i] = r.Path
		}
		return paths
	}

	out := make(map[string][]string)
	switch groupBy {
	case "face":
		for id, recs := range cluster.GroupByFace(records) {
			out[fmt.Sprintf("cluster_%d", id)] = pathsOf(recs)
		}
	case "event":
		for id, recs := range events.GroupByEvent(records, gap) {
			out[fmt.Sprintf("event_%d", id)] = pathsOf(recs)
		}
	case "city", "state", "country":
		grouped, err := geo.GroupByLocation(records, organizer.LocationLevel(groupBy))
		if err != nil {
			return err
		}
		for place, recs := range grouped {
			out[place] = pathsOf(recs)
		}
	default:
		return fmt.Errorf("unknown grouping: %s (supported: face, event, city, state, country)", groupBy)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
