package classify

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

// keywordVocabulary maps a keyword tag to the filename substrings that imply
// it.
var keywordVocabulary = map[string][]string{
	"work":  {"work", "job", "project", "meeting", "report"},
	"study": {"study", "learn", "course", "lecture", "homework"},
	"media": {"game", "movie", "music", "photo", "video"},
	"tools": {"tool", "app", "software", "setup", "installer"},
	"docs":  {"doc", "text", "pdf", "note", "manual"},
}

// Classifier derives semantic attributes from file paths. It is stateless and
// safe for concurrent use.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify stats the file and derives its classification. Returns
// domain.ErrFileVanished when the file no longer exists.
func (c *Classifier) Classify(path string) (*domain.FileClassification, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrFileVanished
		}
		return nil, err
	}

	filename := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(filename))

	return &domain.FileClassification{
		Filename:   filename,
		Name:       domain.BaseName(filename),
		Extension:  ext,
		Type:       domain.TypeForExtension(ext),
		SizeBytes:  info.Size(),
		SizeBucket: domain.BucketForSize(info.Size()),
		Keywords:   ExtractKeywords(filename),
	}, nil
}

// ExtractKeywords returns the keyword tags implied by the filename.
func ExtractKeywords(filename string) []string {
	lower := strings.ToLower(filename)

	var found []string
	for _, tag := range []string{"work", "study", "media", "tools", "docs"} {
		for _, word := range keywordVocabulary[tag] {
			if strings.Contains(lower, word) {
				found = append(found, tag)
				break
			}
		}
	}
	return found
}
