package metadata

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"
)

func TestReadCapture_NoMetadata(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "garbage bytes", data: []byte("definitely not an image")},
		{name: "png without exif", data: buf.Bytes()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReadCapture(tc.data); got != nil {
				t.Errorf("ReadCapture = %+v, want nil", got)
			}
		})
	}
}

func TestTagValueString(t *testing.T) {
	ts := time.Date(2023, 7, 14, 9, 30, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "plain string", value: "Canon", want: "Canon"},
		{name: "time value", value: ts, want: "2023:07:14 09:30:05"},
		{name: "string slice", value: []string{"NIKON", "ignored"}, want: "NIKON"},
		{name: "empty slice", value: []string{}, want: ""},
		{name: "unsupported type", value: 42, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tagValueString(tc.value); got != tc.want {
				t.Errorf("tagValueString(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}
