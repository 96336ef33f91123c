package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-orchestrator",
	Short: "Face collection orchestrator for AWS Rekognition and S3",
	Long: `Face Orchestrator manages face collections in AWS Rekognition backed by
images stored in S3. It compares faces, indexes single images or whole
buckets, searches collections and serves the same operations over HTTP
together with a user profile API.`,
	SilenceUsage: true,
}

// Execute runs the root command. Ctrl+C cancels the command context, which
// aborts the in-flight AWS call and stops a running batch load.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
