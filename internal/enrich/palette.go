package enrich

import (
	"strings"
	"unicode"
)

// NeutralColor is used for the "No Data" bucket and any bucket outside the palette.
const NeutralColor = "#bdbdbd"

// PaletteEntry pairs a bucket label with its map fill colour.
type PaletteEntry struct {
	Bucket string `json:"bucket"`
	Color  string `json:"color"`
}

// Palette is the fixed bucket colour table, in legend order.
var Palette = []PaletteEntry{
	{Bucket: "🟢 Strong Buy", Color: "#1a9850"},
	{Bucket: "🟢 Buy", Color: "#66bd63"},
	{Bucket: "🟡 Hold", Color: "#fee08b"},
	{Bucket: "🟡 Wait", Color: "#fee08b"},
	{Bucket: "🟠 Caution", Color: "#fdae61"},
	{Bucket: "🔴 Avoid", Color: "#d73027"},
	{Bucket: NoData, Color: NeutralColor},
}

var paletteIndex = buildPaletteIndex(Palette)

func buildPaletteIndex(entries []PaletteEntry) map[string]string {
	index := make(map[string]string, len(entries))
	for _, e := range entries {
		index[bucketKey(e.Bucket)] = e.Color
	}
	return index
}

// bucketKey drops decorations (emoji, punctuation) and case so "🟢 Strong Buy" and
// "strong buy" resolve to the same palette entry.
func bucketKey(bucket string) string {
	fields := strings.FieldsFunc(strings.ToUpper(bucket), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// ColorFor returns the fill colour for a bucket label.
func ColorFor(bucket string) string {
	if color, ok := paletteIndex[bucketKey(bucket)]; ok {
		return color
	}
	return NeutralColor
}
