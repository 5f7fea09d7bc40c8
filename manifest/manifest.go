// Package manifest defines the survey collection manifest: which groups a
// survey contains and which blob holds each group's point-cloud capture.
//
// The manifest is the collection definition that maps schedule positions to
// concrete groups; the registration core itself only ever sees GroupIDs and
// loaders derived from it.
package manifest

import (
	"context"
	"fmt"

	"github.com/hupe1980/cloudalign/blobstore"
	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/codec"
	"github.com/hupe1980/cloudalign/model"
)

const (
	// FileName is the conventional manifest blob name inside a survey store.
	FileName = "survey.json"

	// CurrentVersion is written into new manifests.
	CurrentVersion = 1
)

// GroupDef describes one survey group.
type GroupDef struct {
	Key   model.GroupKey `json:"key"`
	Label string         `json:"label"`
	// Blob is the store name of the group's point-cloud capture
	// (PCD, optionally .zst/.lz4 compressed).
	Blob string `json:"blob"`
}

// Manifest describes a survey collection.
type Manifest struct {
	Version int        `json:"version"`
	Survey  string     `json:"survey"`
	Groups  []GroupDef `json:"groups"`
}

// Validate checks that group keys are unique and every group names a blob.
func (m *Manifest) Validate() error {
	seen := make(map[model.GroupKey]struct{}, len(m.Groups))
	for _, g := range m.Groups {
		if _, dup := seen[g.Key]; dup {
			return fmt.Errorf("manifest: duplicate group key %d", g.Key)
		}
		seen[g.Key] = struct{}{}
		if g.Blob == "" {
			return fmt.Errorf("manifest: group %d has no blob", g.Key)
		}
	}
	return nil
}

// GroupIDs returns the groups as model.GroupIDs in manifest order. The slice
// order defines schedule positions.
func (m *Manifest) GroupIDs() []model.GroupID {
	ids := make([]model.GroupID, len(m.Groups))
	for i, g := range m.Groups {
		ids[i] = model.GroupID{Key: g.Key, Label: g.Label}
	}
	return ids
}

// Loaders builds the loader map for a batch run: one deferred PCD load per
// group, reading from the given store. Options (such as
// cloud.WithResourceController) apply to every loader.
func (m *Manifest) Loaders(store blobstore.Store, opts ...cloud.LoaderOption) map[model.GroupKey]cloud.Loader {
	loaders := make(map[model.GroupKey]cloud.Loader, len(m.Groups))
	for _, g := range m.Groups {
		loaders[g.Key] = cloud.FromStore(store, g.Blob, opts...)
	}
	return loaders
}

// Load reads and validates a manifest from the store. A nil codec selects
// codec.Default.
func Load(ctx context.Context, store blobstore.Store, name string, c codec.Codec) (*Manifest, error) {
	if name == "" {
		name = FileName
	}
	if c == nil {
		c = codec.Default
	}
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %q: %w", name, err)
	}
	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %q: %w", name, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save writes the manifest to the store. A nil codec selects codec.Default.
func Save(ctx context.Context, store blobstore.Store, name string, m *Manifest, c codec.Codec) error {
	if name == "" {
		name = FileName
	}
	if c == nil {
		c = codec.Default
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Version == 0 {
		m.Version = CurrentVersion
	}
	data, err := c.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	return store.Put(ctx, name, data)
}
