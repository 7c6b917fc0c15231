package metrics

import "strconv"

// RecordDocumentLines records the number of lines extracted from one document.
func RecordDocumentLines(format string, lines int) {
	DocumentLinesExtracted.WithLabelValues(format).Observe(float64(lines))
}

// RecordChanges records the added and removed line counts of a diff.
func RecordChanges(added, removed int) {
	ChangedLinesTotal.WithLabelValues("added").Add(float64(added))
	ChangedLinesTotal.WithLabelValues("removed").Add(float64(removed))
}

// RecordPass records the chunks submitted and failed during one pass.
// pass is 1 or 2.
func RecordPass(pass, chunks, failures int) {
	label := strconv.Itoa(pass)
	PassChunksTotal.WithLabelValues(label).Add(float64(chunks))
	PassFailuresTotal.WithLabelValues(label).Add(float64(failures))
}

// RecordSecondPassTriggered counts a run that needed a second pass.
func RecordSecondPassTriggered() {
	SecondPassTriggeredTotal.Inc()
}

// UpdateBulletsRendered sets the number of bullets in the rendered list.
func UpdateBulletsRendered(count int) {
	BulletsRendered.Set(float64(count))
}
