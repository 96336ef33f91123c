package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-orchestrator/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config          *config.Config
	profilesEnabled bool
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, profilesEnabled bool) *ConfigHandler {
	return &ConfigHandler{
		config:          cfg,
		profilesEnabled: profilesEnabled,
	}
}

// ConfigResponse is the effective, secret-free configuration
type ConfigResponse struct {
	Region              string  `json:"region"`
	AccessKey           string  `json:"access_key,omitempty"` // masked
	Endpoint            string  `json:"endpoint,omitempty"`
	SimilarityThreshold float32 `json:"similarity_threshold"`
	SearchMaxFaces      int32   `json:"search_max_faces"`
	ListPageSize        int32   `json:"list_page_size"`
	DefaultBucket       string  `json:"default_bucket"`
	PresignTTLSeconds   int64   `json:"presign_ttl_seconds"`
	ProfilesEnabled     bool    `json:"profiles_enabled"`
}

// Get returns the effective configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	response := ConfigResponse{
		Region:              h.config.AWS.Region,
		AccessKey:           h.config.AWS.MaskedAccessKey(),
		Endpoint:            h.config.AWS.Endpoint,
		SimilarityThreshold: h.config.Faces.SimilarityThreshold,
		SearchMaxFaces:      h.config.Faces.SearchMaxFaces,
		ListPageSize:        h.config.Faces.ListPageSize,
		DefaultBucket:       h.config.Storage.DefaultBucket,
		PresignTTLSeconds:   int64(h.config.Storage.PresignTTL.Seconds()),
		ProfilesEnabled:     h.profilesEnabled,
	}

	respondJSON(w, http.StatusOK, response)
}
