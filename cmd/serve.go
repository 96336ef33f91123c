package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/database"
	"github.com/kozaktomas/face-orchestrator/internal/profiles"
	"github.com/kozaktomas/face-orchestrator/internal/web"
	"github.com/kozaktomas/face-orchestrator/internal/web/handlers"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Face Orchestrator web server.
Face recognition endpoints live under /api/facerecognition. User profile
endpoints under /api/userprofile are enabled when DATABASE_URL is set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

// openProfiles connects the optional profile store. A nil handler (and a
// no-op close) is returned when DATABASE_URL is not set.
func openProfiles(ctx context.Context, cfg *config.Config) (handlers.ProfileCommands, func(), error) {
	store, err := database.OpenProfileStore(ctx, &cfg.Database)
	if errors.Is(err, database.ErrNotConfigured) {
		fmt.Println("DATABASE_URL not set, user profile endpoints disabled")
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Error closing profile store: %v\n", err)
		}
	}
	return profiles.NewCommandHandler(store), closeStore, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS clients: %w", err)
	}
	fmt.Printf("Using AWS region %s (access key %s)\n", cfg.AWS.Region, accessKeyLabel(cfg))

	profileCommands, closeProfiles, err := openProfiles(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProfiles()

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, orch, profileCommands, port, host)

	go func() {
		<-ctx.Done()
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Orchestrator on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

func accessKeyLabel(cfg *config.Config) string {
	if cfg.AWS.HasStaticCredentials() {
		return cfg.AWS.MaskedAccessKey()
	}
	return "default credential chain"
}
