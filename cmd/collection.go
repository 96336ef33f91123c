package cmd

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/orchestrator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage face collections",
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [collection-id]",
	Short: "Create a face collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionDescribeCmd = &cobra.Command{
	Use:   "describe [collection-id]",
	Short: "Show collection metadata and face count",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDescribe,
}

var collectionListCmd = &cobra.Command{
	Use:   "list [collection-id]",
	Short: "List every face id in a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionList,
}

var collectionLoadCmd = &cobra.Command{
	Use:   "load [collection-id]",
	Short: "Index every image in a bucket into a collection",
	Long: `Lists every object in the bucket and indexes them one by one, in listing
order. The load stops at the first failure; images indexed before it stay in
the collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionLoad,
}

var collectionSearchCmd = &cobra.Command{
	Use:   "search [collection-id] [image-key]",
	Short: "Search a collection for faces matching an image in the bucket",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionSearch,
}

func init() {
	rootCmd.AddCommand(collectionCmd)
	collectionCmd.AddCommand(collectionCreateCmd, collectionDescribeCmd, collectionListCmd, collectionLoadCmd, collectionSearchCmd)

	collectionCmd.PersistentFlags().Bool("json", false, "Print the result as JSON")
	collectionLoadCmd.Flags().String("bucket", "", "Source bucket (defaults to S3_DEFAULT_BUCKET)")
	collectionSearchCmd.Flags().String("bucket", "", "Bucket holding the query image (defaults to S3_DEFAULT_BUCKET)")
}

// bucketFlag returns --bucket, falling back to the configured default bucket.
func bucketFlag(cmd *cobra.Command, cfg *config.Config) string {
	if bucket := mustGetString(cmd, "bucket"); bucket != "" {
		return bucket
	}
	return cfg.Storage.DefaultBucket
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	created, err := orch.CreateCollection(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return printResult(mustGetBool(cmd, "json"), fmt.Sprintf("Created collection %s (%s)", args[0], created.ARN), created)
}

func runCollectionDescribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	info, err := orch.DescribeCollection(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to describe collection: %w", err)
	}
	message := fmt.Sprintf("Collection: %s\nFaces: %d\nModel: %s", info.ARN, info.FaceCount, info.FaceModelVersion)
	return printResult(mustGetBool(cmd, "json"), message, info)
}

func runCollectionList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	ids, err := orch.ListFaces(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to list faces: %w", err)
	}
	if mustGetBool(cmd, "json") {
		return printResult(true, fmt.Sprintf("%d face(s)", len(ids)), ids)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Printf("%d face(s)\n", len(ids))
	return nil
}

func runCollectionLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	jsonOutput := mustGetBool(cmd, "json")
	bucket := bucketFlag(cmd, cfg)

	var bar *progressbar.ProgressBar
	progress := func(processed, total int, key string) {
		if jsonOutput {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Indexing "+bucket),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("images"),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionFullWidth(),
			)
		}
		_ = bar.Set(processed)
	}

	result, err := orch.LoadBucket(ctx, bucket, args[0], progress)
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}
	if err != nil {
		var batchErr *orchestrator.BatchError
		if errors.As(err, &batchErr) && result != nil {
			fmt.Printf("Stopped at %s after %d of %d image(s)\n", batchErr.Key, batchErr.Processed, result.Total)
		}
		return fmt.Errorf("failed to load bucket: %w", err)
	}
	return printResult(jsonOutput, fmt.Sprintf("Indexed %d image(s) from %s into %s", result.Processed, bucket, args[0]), result)
}

func runCollectionSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	matches, err := orch.SearchCollection(ctx, args[0], bucketFlag(cmd, cfg), args[1])
	if err != nil {
		return fmt.Errorf("failed to search collection: %w", err)
	}
	if mustGetBool(cmd, "json") {
		return printResult(true, fmt.Sprintf("%d match(es)", len(matches)), matches)
	}
	for _, m := range matches {
		fmt.Printf("%s  %.2f%%  %s\n", m.FaceID, m.Similarity, m.ExternalImageID)
	}
	fmt.Printf("%d match(es)\n", len(matches))
	return nil
}
