package metrics

import "time"

// RecordEntriesFetched increments the fetched entry counter for a source.
func RecordEntriesFetched(source string, n int) {
	EntriesFetchedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordArticleInserted increments the inserted article counter for a source.
func RecordArticleInserted(source string) {
	ArticlesInsertedTotal.WithLabelValues(source).Inc()
}

// RecordArticleDuplicated increments the duplicate skip counter for a source.
func RecordArticleDuplicated(source string) {
	ArticlesDuplicatedTotal.WithLabelValues(source).Inc()
}

// RecordSourceIngest observes the time taken to ingest one source.
func RecordSourceIngest(source string, d time.Duration) {
	SourceIngestDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordIngestError increments the error counter for a source and error type.
func RecordIngestError(source, errorType string) {
	IngestErrors.WithLabelValues(source, errorType).Inc()
}

// RecordEnrichment observes one article page enrichment attempt.
func RecordEnrichment(status string, d time.Duration) {
	EnrichmentAttemptsTotal.WithLabelValues(status).Inc()
	EnrichmentDuration.Observe(d.Seconds())
}

// SetArticlesTotal updates the article count gauge.
func SetArticlesTotal(n int64) {
	ArticlesTotal.Set(float64(n))
}
