package mlmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subscout/subscout/internal/common"
)

// Artifact filenames within a model directory.
const (
	ForestArtifact   = "forest_subscription.json"
	BoostArtifact    = "boost_subscription.json"
	MetadataArtifact = "subs_meta.json"

	// MetadataVersion tags the feature-schema generation. Bump when the
	// feature set changes incompatibly.
	MetadataVersion = "subs_v1"
)

// Model is a trained binary classifier over aligned feature rows.
type Model interface {
	PredictProba(row []float64) float64
	Family() string
}

// ClassBalance records the training label distribution.
type ClassBalance struct {
	Pos int `json:"pos"`
	Neg int `json:"neg"`
}

// Metadata is the sidecar record persisted next to model artifacts. Its
// feature list is the schema every future feature vector must be aligned to
// before scoring.
type Metadata struct {
	Version      string       `json:"version"`
	Features     []string     `json:"features"`
	NSamples     int          `json:"n_samples"`
	ClassBalance ClassBalance `json:"class_balance"`
}

// envelope wraps a serialized model with its family tag.
type envelope struct {
	Family string          `json:"family"`
	Model  json.RawMessage `json:"model"`
}

// SaveModel writes a model artifact as JSON.
func SaveModel(path string, m Model) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal %s model: %w", m.Family(), err)
	}
	data, err := json.Marshal(envelope{Family: m.Family(), Model: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal model envelope: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	return nil
}

// LoadModel reads a model artifact. A missing file yields
// common.ErrModelUnavailable so callers can fall back to the heuristic path.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse model envelope: %w", err)
	}

	switch env.Family {
	case FamilyForest:
		var f Forest
		if err := json.Unmarshal(env.Model, &f); err != nil {
			return nil, fmt.Errorf("failed to parse forest model: %w", err)
		}
		return &f, nil
	case FamilyBoost:
		var b Boost
		if err := json.Unmarshal(env.Model, &b); err != nil {
			return nil, fmt.Errorf("failed to parse boost model: %w", err)
		}
		return &b, nil
	default:
		return nil, fmt.Errorf("unknown model family %q", env.Family)
	}
}

// SaveMetadata writes the feature-schema sidecar.
func SaveMetadata(path string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads the feature-schema sidecar. A missing or unreadable
// sidecar is reported, not fatal; the scorer decides how to proceed.
func LoadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, fmt.Errorf("%w: metadata sidecar missing: %s", common.ErrSchemaUnusable, path)
		}
		return Metadata{}, fmt.Errorf("failed to read model metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", common.ErrSchemaUnusable, err)
	}
	return meta, nil
}
