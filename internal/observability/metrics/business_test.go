package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestRecordEntriesFetched(t *testing.T) {
	c := EntriesFetchedTotal.WithLabelValues("test-fetched")
	before := counterValue(t, c)

	RecordEntriesFetched("test-fetched", 7)

	assert.Equal(t, before+7, counterValue(t, c))
}

func TestRecordArticleInserted(t *testing.T) {
	c := ArticlesInsertedTotal.WithLabelValues("test-inserted")
	before := counterValue(t, c)

	RecordArticleInserted("test-inserted")
	RecordArticleInserted("test-inserted")

	assert.Equal(t, before+2, counterValue(t, c))
}

func TestRecordArticleDuplicated(t *testing.T) {
	c := ArticlesDuplicatedTotal.WithLabelValues("test-dup")
	before := counterValue(t, c)

	RecordArticleDuplicated("test-dup")

	assert.Equal(t, before+1, counterValue(t, c))
}

func TestRecordIngestError(t *testing.T) {
	c := IngestErrors.WithLabelValues("test-err", "fetch")
	before := counterValue(t, c)

	RecordIngestError("test-err", "fetch")

	assert.Equal(t, before+1, counterValue(t, c))
}

func TestRecordSourceIngest(t *testing.T) {
	RecordSourceIngest("test-duration", 250*time.Millisecond)

	var pb dto.Metric
	h, err := SourceIngestDuration.GetMetricWithLabelValues("test-duration")
	require.NoError(t, err)
	require.NoError(t, h.(interface{ Write(*dto.Metric) error }).Write(&pb))

	assert.GreaterOrEqual(t, pb.GetHistogram().GetSampleCount(), uint64(1))
	assert.InDelta(t, 0.25, pb.GetHistogram().GetSampleSum(), 0.001)
}

func TestRecordEnrichment(t *testing.T) {
	c := EnrichmentAttemptsTotal.WithLabelValues("ok")
	before := counterValue(t, c)

	RecordEnrichment("ok", 100*time.Millisecond)

	assert.Equal(t, before+1, counterValue(t, c))
}

func TestSetArticlesTotal(t *testing.T) {
	SetArticlesTotal(42)

	var pb dto.Metric
	require.NoError(t, ArticlesTotal.Write(&pb))
	assert.Equal(t, float64(42), pb.GetGauge().GetValue())
}
