package classify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestClassifier_Classify(t *testing.T) {
	dir := t.TempDir()
	c := New()

	tests := []struct {
		name       string
		filename   string
		size       int
		wantType   domain.FileType
		wantBucket domain.SizeBucket
		wantExt    string
	}{
		{
			name:       "pdf document",
			filename:   "report.PDF",
			size:       512,
			wantType:   domain.TypeDocument,
			wantBucket: domain.SizeTiny,
			wantExt:    ".pdf",
		},
		{
			name:       "image",
			filename:   "holiday.jpg",
			size:       2 * 1024 * 1024,
			wantType:   domain.TypeImage,
			wantBucket: domain.SizeSmall,
			wantExt:    ".jpg",
		},
		{
			name:       "shortcut",
			filename:   "browser.lnk",
			size:       128,
			wantType:   domain.TypeShortcut,
			wantBucket: domain.SizeTiny,
			wantExt:    ".lnk",
		},
		{
			name:       "unknown extension",
			filename:   "data.xyz",
			size:       64,
			wantType:   domain.TypeOther,
			wantBucket: domain.SizeTiny,
			wantExt:    ".xyz",
		},
		{
			name:       "no extension",
			filename:   "README",
			size:       64,
			wantType:   domain.TypeOther,
			wantBucket: domain.SizeTiny,
			wantExt:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.filename, tt.size)

			got, err := c.Classify(path)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}

			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.SizeBucket != tt.wantBucket {
				t.Errorf("SizeBucket = %v, want %v", got.SizeBucket, tt.wantBucket)
			}
			if got.Extension != tt.wantExt {
				t.Errorf("Extension = %q, want %q", got.Extension, tt.wantExt)
			}
			if got.Filename != tt.filename {
				t.Errorf("Filename = %q, want %q", got.Filename, tt.filename)
			}
		})
	}
}

func TestClassifier_Classify_Vanished(t *testing.T) {
	c := New()
	_, err := c.Classify(filepath.Join(t.TempDir(), "gone.pdf"))
	if !errors.Is(err, domain.ErrFileVanished) {
		t.Errorf("Classify() error = %v, want ErrFileVanished", err)
	}
}

func TestBucketForSize(t *testing.T) {
	const mb = 1024 * 1024
	tests := []struct {
		size int64
		want domain.SizeBucket
	}{
		{0, domain.SizeTiny},
		{1*mb - 1, domain.SizeTiny},
		{1 * mb, domain.SizeSmall},
		{10 * mb, domain.SizeMedium},
		{100 * mb, domain.SizeLarge},
		{1000 * mb, domain.SizeHuge},
	}

	for _, tt := range tests {
		if got := domain.BucketForSize(tt.size); got != tt.want {
			t.Errorf("BucketForSize(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		filename string
		want     []string
	}{
		{"quarterly_report.pdf", []string{"work", "docs"}},
		{"lecture_notes.txt", []string{"study", "docs"}},
		{"setup_tool.exe", []string{"tools"}},
		{"random.bin", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := ExtractKeywords(tt.filename)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractKeywords(%q) = %v, want %v", tt.filename, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractKeywords(%q)[%d] = %q, want %q", tt.filename, i, got[i], tt.want[i])
				}
			}
		})
	}
}
