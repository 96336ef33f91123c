package cmd

import (
	"fmt"

	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [source-image] [target-image]",
	Short: "Compare the largest face in the source image with faces in the target",
	Long: `Compares two images referenced by http(s):// URL or s3://bucket/key.
Only matches at or above FACE_SIMILARITY_THRESHOLD are reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := orch.CompareFaces(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to compare faces: %w", err)
	}
	if mustGetBool(cmd, "json") {
		return printResult(true, fmt.Sprintf("%d matching face(s)", len(result.Matches)), result)
	}
	for _, m := range result.Matches {
		fmt.Printf("Face at left=%.3f top=%.3f matches with %.2f%% similarity\n", m.Left, m.Top, m.Similarity)
	}
	fmt.Printf("%d matching face(s), %d unmatched\n", len(result.Matches), result.UnmatchedCount)
	return nil
}
