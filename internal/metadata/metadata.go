// Package metadata reads optional capture metadata from raw image bytes.
// Absence of metadata is a normal value everywhere, never an error.
package metadata

import (
	"bytes"
	"time"

	"github.com/bep/imagemeta"

	"phototriage/pkg/models"
)

// exifDateTimeFormat is the canonical EXIF timestamp layout.
const exifDateTimeFormat = "2006:01:02 15:04:05"

// wantedTags lists the EXIF tags that feed CaptureMeta.
var wantedTags = map[string]bool{
	"Make":     true,
	"Model":    true,
	"DateTime": true,
}

// ReadCapture extracts camera make, model and capture time from raw image
// bytes. Returns nil when the data is empty, unparseable, or carries none
// of the wanted tags.
func ReadCapture(data []byte) *models.CaptureMeta {
	if len(data) == 0 {
		return nil
	}

	meta := &models.CaptureMeta{}
	found := false

	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return wantedTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			s := tagValueString(ti.Value)
			if s == "" {
				return nil
			}
			switch ti.Tag {
			case "Make":
				meta.Make = s
			case "Model":
				meta.Model = s
			case "DateTime":
				meta.DateTime = s
			default:
				return nil
			}
			found = true
			return nil
		},
	})

	if err != nil || !found {
		return nil
	}
	return meta
}

// tagValueString extracts a string from a tag value. DateTime may arrive
// already parsed as time.Time depending on the source file.
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case time.Time:
		return val.Format(exifDateTimeFormat)
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	default:
		return ""
	}
}
