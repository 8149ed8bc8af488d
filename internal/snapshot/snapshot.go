package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gridfall/desktop-organizer/internal/classify"
	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/port"
	"github.com/gridfall/desktop-organizer/internal/regions"
	"go.uber.org/zap"
)

// FileEntry is one desktop file as seen by a snapshot: its classification plus
// where its icon currently sits, if known.
type FileEntry struct {
	Filename   string            `json:"filename"`
	Extension  string            `json:"extension"`
	Type       domain.FileType   `json:"type"`
	SizeBytes  int64             `json:"size_bytes"`
	SizeBucket domain.SizeBucket `json:"size_bucket"`
	Keywords   []string          `json:"keywords,omitempty"`
	X          int               `json:"x"`
	Y          int               `json:"y"`
	RegionID   string            `json:"region_id,omitempty"`
}

// DesktopSnapshot is a point-in-time view of the watched directory, the input
// to rule generation.
type DesktopSnapshot struct {
	TakenAt     time.Time         `json:"taken_at"`
	Directory   string            `json:"directory"`
	TotalFiles  int               `json:"total_files"`
	Files       []FileEntry       `json:"files"`
	TypeCounts  map[string]int    `json:"type_counts"`
	SizeBuckets map[string]int    `json:"size_buckets"`
	Regions     []domain.Region   `json:"regions"`
	Unplaced    int               `json:"unplaced"`
}

// Taker builds desktop snapshots from the watched directory, the position
// store and the region catalog.
type Taker struct {
	dir        string
	classifier *classify.Classifier
	store      port.IconStore
	catalog    *regions.Catalog
	logger     *zap.Logger
}

// NewTaker creates a snapshot taker for dir.
func NewTaker(dir string, classifier *classify.Classifier, store port.IconStore, catalog *regions.Catalog, logger *zap.Logger) *Taker {
	return &Taker{
		dir:        dir,
		classifier: classifier,
		store:      store,
		catalog:    catalog,
		logger:     logger,
	}
}

// Take scans the directory and assembles a snapshot. Files that vanish
// mid-scan are skipped. Entries are sorted by filename so snapshots are
// stable across runs.
func (t *Taker) Take() (*DesktopSnapshot, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, err
	}

	positions, err := t.store.GetAll()
	if err != nil {
		return nil, err
	}

	snap := &DesktopSnapshot{
		TakenAt:     time.Now(),
		Directory:   t.dir,
		TypeCounts:  make(map[string]int),
		SizeBuckets: make(map[string]int),
		Regions:     t.catalog.List(),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		fc, err := t.classifier.Classify(filepath.Join(t.dir, entry.Name()))
		if err != nil {
			if errors.Is(err, domain.ErrFileVanished) {
				continue
			}
			t.logger.Warn("skipping unreadable file",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		fe := FileEntry{
			Filename:   fc.Filename,
			Extension:  fc.Extension,
			Type:       fc.Type,
			SizeBytes:  fc.SizeBytes,
			SizeBucket: fc.SizeBucket,
			Keywords:   fc.Keywords,
		}

		if pos, ok := positions[fc.Filename]; ok {
			fe.X, fe.Y = pos.X, pos.Y
			if region, ok := t.catalog.RegionContaining(pos.X, pos.Y); ok {
				fe.RegionID = region.ID
			}
		} else {
			snap.Unplaced++
		}

		snap.Files = append(snap.Files, fe)
		snap.TypeCounts[string(fc.Type)]++
		snap.SizeBuckets[string(fc.SizeBucket)]++
	}

	sort.Slice(snap.Files, func(i, j int) bool {
		return snap.Files[i].Filename < snap.Files[j].Filename
	})
	snap.TotalFiles = len(snap.Files)

	return snap, nil
}
