package cmd

import (
	"fmt"
	"time"

	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/spf13/cobra"
)

var presignCmd = &cobra.Command{
	Use:   "presign [image-key]",
	Short: "Print a time-limited GET URL for an object",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresign,
}

func init() {
	rootCmd.AddCommand(presignCmd)
	presignCmd.Flags().String("bucket", "", "Bucket holding the object (defaults to S3_DEFAULT_BUCKET)")
	presignCmd.Flags().Bool("json", false, "Print the result as JSON")
}

func runPresign(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	presigned, err := orch.PresignURL(ctx, bucketFlag(cmd, cfg), args[0])
	if err != nil {
		return fmt.Errorf("failed to presign URL: %w", err)
	}
	if mustGetBool(cmd, "json") {
		return printResult(true, "url expires at "+presigned.ExpiresAt.UTC().Format(time.RFC3339), presigned)
	}
	fmt.Println(presigned.URL)
	return nil
}
