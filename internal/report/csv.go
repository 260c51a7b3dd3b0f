// Package report serializes batch results to the flat tabular export
// format. Formatting rules here are part of the external contract.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"phototriage/pkg/models"
)

// Header is the fixed column order of the export format.
var Header = []string{
	"name",
	"size_bytes",
	"width",
	"height",
	"megapixels",
	"aspect_ratio",
	"blur_score",
	"overexposed_pct",
	"underexposed_pct",
	"flags",
	"make",
	"model",
	"datetime",
	"hash_hex",
}

// WriteCSV writes one header row followed by one row per record, in batch
// order. Fields containing commas, quotes or newlines are quoted with
// internal quotes doubled; missing metadata fields are empty strings.
func WriteCSV(w io.Writer, records []models.ImageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(row(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(rec *models.ImageRecord) []string {
	var cameraMake, cameraModel, dateTime string
	if rec.Capture != nil {
		cameraMake = rec.Capture.Make
		cameraModel = rec.Capture.Model
		dateTime = rec.Capture.DateTime
	}

	return []string{
		rec.Name,
		strconv.FormatInt(rec.SizeBytes, 10),
		strconv.Itoa(rec.Width),
		strconv.Itoa(rec.Height),
		fmt.Sprintf("%.2f", rec.Megapixels),
		fmt.Sprintf("%.4f", rec.AspectRatio),
		fmt.Sprintf("%.0f", rec.BlurScore),
		fmt.Sprintf("%.1f", rec.Exposure.OverexposedFraction*100),
		fmt.Sprintf("%.1f", rec.Exposure.UnderexposedFraction*100),
		strings.Join(rec.Flags, "|"),
		cameraMake,
		cameraModel,
		dateTime,
		rec.HashHex,
	}
}
