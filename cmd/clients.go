package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/face-orchestrator/internal/cloud"
	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/faces"
	"github.com/kozaktomas/face-orchestrator/internal/objectstore"
	"github.com/kozaktomas/face-orchestrator/internal/orchestrator"
)

// newOrchestrator wires the long-lived AWS clients into an orchestrator.
// It is called once per process.
func newOrchestrator(ctx context.Context, cfg *config.Config) (*orchestrator.Orchestrator, error) {
	httpClient := cloud.NewHTTPClient()

	awsCfg, err := cloud.LoadAWSConfig(ctx, &cfg.AWS, httpClient)
	if err != nil {
		return nil, err
	}

	store := objectstore.New(cloud.NewS3Client(awsCfg, &cfg.AWS), objectstore.Options{
		Region:     cfg.AWS.Region,
		PresignTTL: cfg.Storage.PresignTTL,
	})
	faceClient := faces.New(cloud.NewRekognitionClient(awsCfg))

	return orchestrator.New(store, faceClient, httpClient, orchestrator.SettingsFromConfig(cfg)), nil
}

// printResult writes the operation outcome either as the JSON envelope the
// web API returns or as a single human-readable line.
func printResult(jsonOutput bool, message string, data any) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(orchestrator.Success(message, data))
	}
	fmt.Println(message)
	return nil
}
