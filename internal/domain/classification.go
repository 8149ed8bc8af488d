package domain

import (
	"path/filepath"
	"strings"
)

// FileType is the semantic category derived from a file's extension.
type FileType string

// Known file types
const (
	TypeDocument   FileType = "document"
	TypeImage      FileType = "image"
	TypeVideo      FileType = "video"
	TypeAudio      FileType = "audio"
	TypeArchive    FileType = "archive"
	TypeExecutable FileType = "executable"
	TypeShortcut   FileType = "shortcut"
	TypeOther      FileType = "other"
)

// SizeBucket groups files into coarse size classes.
type SizeBucket string

// Size buckets, by megabytes: tiny <1, small <10, medium <100, large <1000, huge >=1000.
const (
	SizeTiny   SizeBucket = "tiny"
	SizeSmall  SizeBucket = "small"
	SizeMedium SizeBucket = "medium"
	SizeLarge  SizeBucket = "large"
	SizeHuge   SizeBucket = "huge"
)

const megabyte = 1024 * 1024

// BucketForSize returns the size bucket for a file of the given byte size.
func BucketForSize(sizeBytes int64) SizeBucket {
	switch {
	case sizeBytes < 1*megabyte:
		return SizeTiny
	case sizeBytes < 10*megabyte:
		return SizeSmall
	case sizeBytes < 100*megabyte:
		return SizeMedium
	case sizeBytes < 1000*megabyte:
		return SizeLarge
	default:
		return SizeHuge
	}
}

var extensionTypes = map[string]FileType{
	".txt":  TypeDocument,
	".doc":  TypeDocument,
	".docx": TypeDocument,
	".pdf":  TypeDocument,
	".jpg":  TypeImage,
	".jpeg": TypeImage,
	".png":  TypeImage,
	".gif":  TypeImage,
	".mp4":  TypeVideo,
	".avi":  TypeVideo,
	".mkv":  TypeVideo,
	".mp3":  TypeAudio,
	".wav":  TypeAudio,
	".zip":  TypeArchive,
	".rar":  TypeArchive,
	".7z":   TypeArchive,
	".exe":  TypeExecutable,
	".msi":  TypeExecutable,
	".lnk":  TypeShortcut,
}

// TypeForExtension maps a file extension (with leading dot, any case) to its
// semantic type. Unknown extensions map to TypeOther.
func TypeForExtension(ext string) FileType {
	if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return TypeOther
}

// FileClassification holds the attributes derived from a file path that rule
// conditions are evaluated against. It is ephemeral: computed per match and
// never persisted.
type FileClassification struct {
	Filename   string
	Name       string
	Extension  string
	Type       FileType
	SizeBytes  int64
	SizeBucket SizeBucket
	Keywords   []string
}

// HasKeyword reports whether the classification carries the given keyword tag.
func (c *FileClassification) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// BaseName returns the filename without its extension.
func BaseName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
