package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-organizer/internal/ai"
	"github.com/kozaktomas/photo-organizer/internal/cluster"
	"github.com/kozaktomas/photo-organizer/internal/config"
	"github.com/kozaktomas/photo-organizer/internal/embedding"
	"github.com/kozaktomas/photo-organizer/internal/geo"
	"github.com/kozaktomas/photo-organizer/internal/index"
	"github.com/kozaktomas/photo-organizer/internal/ocr"
	"github.com/kozaktomas/photo-organizer/internal/organizer"
	"github.com/kozaktomas/photo-organizer/internal/scanner"
	"github.com/kozaktomas/photo-organizer/internal/store"
	"github.com/kozaktomas/photo-organizer/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve [directory]",
	Short: "Start the web server",
	Long: `Start the Photo Organizer web server. The server exposes the photo
library over a JSON API: photos, events, locations and face clusters.
When a directory is given it is scanned into the database first, using
the offline collaborators only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
}

func runServe(cmd *cobra.Command, args []string) error {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")
	dbPath := mustGetString(cmd, "db")
	if dbPath == "" {
		dbPath = config.Load().Database.Path
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	if len(args) == 1 {
		if err := scanIntoStore(cmd.Context(), st, args[0]); err != nil {
			return err
		}
	}

	// An in-memory index over the stored faces backs the similarity
	// endpoint. It is rebuilt on every start.
	records, err := st.ListPhotos(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}
	faceIndex := index.New()
	if err := faceIndex.BuildFromRecords(records); err != nil {
		return fmt.Errorf("failed to build face index: %w", err)
	}
	fmt.Printf("Face index built with %d faces\n", faceIndex.Count())

	server := web.NewServer(st, faceIndex, host, port)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

// scanIntoStore runs a fully offline scan on the directory before the
// server starts. Photos already in the database are refreshed.
func scanIntoStore(ctx context.Context, st *store.Store, dir string) error {
	paths, err := scanner.ListImages(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	cfg := config.Load()
	org := &organizer.Organizer{
		Source: &scanner.Scanner{
			Classifier: ai.HeuristicClassifier{},
			Embedder:   embedding.NewNullEmbedder(cfg.Embedding.Dim),
			Geocoder:   geo.NewOfflineGeocoder(),
			Extractor:  ocr.NullExtractor{},
		},
		Grouper: cluster.NewDensityClusterer(cluster.DefaultEps, cluster.DefaultMinSamples),
		ClusterFunc: func(records []*organizer.PhotoRecord, grouper organizer.FaceGrouper) error {
			return cluster.Faces(records, grouper)
		},
		Sink: st,
	}

	result, err := org.Run(ctx, paths, organizer.Options{ShowBar: true})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	fmt.Printf("\nScanned %d photos into the database\n", len(result.Records))
	return nil
}
