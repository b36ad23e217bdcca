// Package writer persists rendered template documents and the run manifest.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/armforge/armforge/internal/synth/arm"
	"github.com/armforge/armforge/internal/synth/document"
	"github.com/armforge/armforge/internal/synth/partition"
)

// Manifest summarizes one synthesis run for operators and tooling.
type Manifest struct {
	RunID       string             `json:"runId"`
	Stack       string             `json:"stack"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Documents   []ManifestDocument `json:"documents"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// ManifestDocument is one document entry in the manifest.
type ManifestDocument struct {
	Name          string   `json:"name"`
	FileName      string   `json:"fileName"`
	ResourceCount int      `json:"resourceCount"`
	EstimatedSize int      `json:"estimatedSize,omitempty"`
	IsRoot        bool     `json:"isRoot,omitempty"`
	DependsOn     []string `json:"dependsOn,omitempty"`
}

// Writer persists documents to an output directory.
type Writer struct {
	dir    string
	logger *zap.SugaredLogger
}

// New creates a writer rooted at dir.
func New(dir string, logger *zap.SugaredLogger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write persists every rendered template plus a manifest.json. Documents
// are written in deployment order so a partial failure leaves deployable
// prefixes on disk.
func (w *Writer) Write(stack string, templates map[string]*arm.Template, result *partition.Result, plan *document.Plan) (*Manifest, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &Manifest{
		RunID:       uuid.NewString(),
		Stack:       stack,
		GeneratedAt: time.Now().UTC(),
	}
	for _, warn := range result.Warnings {
		manifest.Warnings = append(manifest.Warnings, warn.Message)
	}

	dependsOn := documentDependencies(result)

	names := append([]string(nil), plan.Order...)
	if plan.Root != nil {
		names = append(names, document.RootDocumentName)
	}
	for _, name := range names {
		tpl, ok := templates[name]
		if !ok {
			return nil, fmt.Errorf("no rendered template for document %q", name)
		}
		meta := result.Documents[name]
		if meta == nil && plan.RootMetadata != nil && name == document.RootDocumentName {
			meta = plan.RootMetadata
		}
		if meta == nil {
			return nil, fmt.Errorf("no metadata for document %q", name)
		}

		if err := w.writeJSON(meta.FileName, tpl); err != nil {
			return nil, err
		}
		w.logger.Infow("wrote document",
			"file", meta.FileName,
			"resources", meta.ResourceCount,
			"estimatedSize", meta.EstimatedSize,
		)
		manifest.Documents = append(manifest.Documents, ManifestDocument{
			Name:          meta.Name,
			FileName:      meta.FileName,
			ResourceCount: meta.ResourceCount,
			EstimatedSize: meta.EstimatedSize,
			IsRoot:        meta.IsRoot,
			DependsOn:     dependsOn[name],
		})
	}

	if err := w.writeJSON("manifest.json", manifest); err != nil {
		return nil, err
	}
	w.logger.Infow("synthesis complete", "runId", manifest.RunID, "documents", len(manifest.Documents))
	return manifest, nil
}

func (w *Writer) writeJSON(fileName string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", fileName, err)
	}
	path := filepath.Join(w.dir, fileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fileName, err)
	}
	return nil
}

// documentDependencies projects cross-document references onto document
// names for the manifest.
func documentDependencies(result *partition.Result) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[[2]string]bool)
	for _, ref := range result.CrossReferences {
		key := [2]string{ref.SourceDocument, ref.TargetDocument}
		if seen[key] {
			continue
		}
		seen[key] = true
		out[ref.SourceDocument] = append(out[ref.SourceDocument], ref.TargetDocument)
	}
	return out
}
