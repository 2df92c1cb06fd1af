package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-organizer/internal/config"
	"github.com/kozaktomas/photo-organizer/internal/store"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Manage face cluster labels",
	Long: `Manage the names assigned to face clusters. Labels survive
re-clustering as long as cluster IDs stay stable.`,
}

var labelsSetCmd = &cobra.Command{
	Use:   "set [cluster-id] [name]",
	Short: "Assign a name to a face cluster",
	Args:  cobra.ExactArgs(2),
	RunE:  runLabelsSet,
}

var labelsGetCmd = &cobra.Command{
	Use:   "get [cluster-id]",
	Short: "Print the name of a face cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelsGet,
}

var labelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all face cluster labels",
	Args:  cobra.NoArgs,
	RunE:  runLabelsList,
}

var labelsFindCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Find clusters whose label matches a name",
	Long: `Find clusters whose label matches a name. Matching ignores case
and diacritics, so "jan-novak" finds "Jan Novák".`,
	Args: cobra.ExactArgs(1),
	RunE: runLabelsFind,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.AddCommand(labelsSetCmd)
	labelsCmd.AddCommand(labelsGetCmd)
	labelsCmd.AddCommand(labelsListCmd)
	labelsCmd.AddCommand(labelsFindCmd)

	labelsCmd.PersistentFlags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
}

func openLabelStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, err
	}
	if dbPath == "" {
		dbPath = config.Load().Database.Path
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLabelsSet(cmd *cobra.Command, args []string) error {
	clusterID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid cluster id %q", args[0])
	}
	name := args[1]

	st, err := openLabelStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetFaceLabel(cmd.Context(), clusterID, name); err != nil {
		return err
	}
	return printJSON(store.FaceLabel{ClusterID: clusterID, Name: name})
}

func runLabelsGet(cmd *cobra.Command, args []string) error {
	clusterID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid cluster id %q", args[0])
	}

	st, err := openLabelStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	name, found, err := st.GetFaceLabel(cmd.Context(), clusterID)
	if err != nil {
		return err
	}

	// Absent labels print as null so scripts can tell "unnamed"
	// apart from an empty string.
	var namePtr *string
	if found {
		namePtr = &name
	}
	return printJSON(map[string]any{
		"cluster_id": clusterID,
		"name":       namePtr,
	})
}

func runLabelsList(cmd *cobra.Command, args []string) error {
	st, err := openLabelStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	labels, err := st.ListFaceLabels(cmd.Context())
	if err != nil {
		return err
	}
	if labels == nil {
		labels = []store.FaceLabel{}
	}
	return printJSON(labels)
}

func runLabelsFind(cmd *cobra.Command, args []string) error {
	st, err := openLabelStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	labels, err := st.FindFaceLabels(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if labels == nil {
		labels = []store.FaceLabel{}
	}
	return printJSON(labels)
}
