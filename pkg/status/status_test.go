package status

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ong-client/pkg/observe"
)

var allFetchStatuses = []FetchStatus{FetchLoading, FetchDone, FetchError}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestCombine_LoadingDominates(t *testing.T) {
	for _, s := range allFetchStatuses {
		for _, n := range allFetchStatuses {
			for _, tm := range allFetchStatuses {
				if s != FetchLoading && n != FetchLoading && tm != FetchLoading {
					continue
				}
				assert.Equal(t, Loading, Combine(s, n, tm), "Combine(%s, %s, %s)", s, n, tm)
			}
		}
	}
}

func TestCombine_AllDone(t *testing.T) {
	assert.Equal(t, Done, Combine(FetchDone, FetchDone, FetchDone))
}

func TestClassify_TieBreak(t *testing.T) {
	tests := []struct {
		name                string
		slides, news, testi FetchStatus
		wantClass           ErrorClass
		wantStatus          AggregateStatus
	}{
		{"slides only", FetchError, FetchDone, FetchDone, ClassSlides, ErrorSlides},
		{"news only", FetchDone, FetchError, FetchDone, ClassNews, ErrorNews},
		{"testimonials only", FetchDone, FetchDone, FetchError, ClassTestimonials, ErrorTestimonials},
		{"slides and news", FetchError, FetchError, FetchDone, ClassGeneral, ErrorGeneral},
		{"slides and testimonials", FetchError, FetchDone, FetchError, ClassGeneral, ErrorGeneral},
		{"news and testimonials", FetchDone, FetchError, FetchError, ClassGeneral, ErrorGeneral},
		{"all three", FetchError, FetchError, FetchError, ClassGeneral, ErrorGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantClass, Classify(tt.slides, tt.news, tt.testi))
			assert.Equal(t, tt.wantStatus, Combine(tt.slides, tt.news, tt.testi))
		})
	}
}

func TestClassify_NoError(t *testing.T) {
	assert.Equal(t, ClassNone, Classify(FetchDone, FetchDone, FetchDone))
	assert.Equal(t, ClassNone, Classify(FetchLoading, FetchDone, FetchLoading))
}

func TestClassify_CodesMatchDialogNumbers(t *testing.T) {
	assert.Equal(t, 2, int(ClassGeneral))
	assert.Equal(t, 3, int(ClassSlides))
	assert.Equal(t, 4, int(ClassNews))
	assert.Equal(t, 5, int(ClassTestimonials))
}

func TestCombineAndClassify_Idempotent(t *testing.T) {
	for _, s := range allFetchStatuses {
		for _, n := range allFetchStatuses {
			for _, tm := range allFetchStatuses {
				assert.Equal(t, Combine(s, n, tm), Combine(s, n, tm))
				assert.Equal(t, Classify(s, n, tm), Classify(s, n, tm))
			}
		}
	}
}

func TestCombine_ErrorVariantAgreesWithClassify(t *testing.T) {
	for _, s := range allFetchStatuses {
		for _, n := range allFetchStatuses {
			for _, tm := range allFetchStatuses {
				agg := Combine(s, n, tm)
				if agg.IsError() {
					assert.Equal(t, Classify(s, n, tm), agg.Class())
				}
			}
		}
	}
}

func TestStatus_Strings(t *testing.T) {
	assert.Equal(t, "loading", FetchLoading.String())
	assert.Equal(t, "error", FetchError.String())
	assert.Equal(t, "unknown", FetchStatus(42).String())
	assert.Equal(t, "error_news", ErrorNews.String())
	assert.Equal(t, "testimonials", SourceTestimonials.String())
	assert.False(t, Source(9).Valid())
	assert.Equal(t, Done, ClassNone.Status())
}

func TestAggregator_OneNotificationPerUpdate(t *testing.T) {
	agg := NewAggregator(testLogger())
	var got []AggregateStatus
	agg.Status().Observe(func(s AggregateStatus) { got = append(got, s) })

	agg.Update(SourceSlides, FetchDone)
	agg.Update(SourceNews, FetchDone)
	agg.Update(SourceTestimonials, FetchDone)

	assert.Equal(t, []AggregateStatus{Loading, Loading, Done}, got)
	assert.Equal(t, Snapshot{FetchDone, FetchDone, FetchDone}, agg.Snapshot())
}

func TestAggregator_NoDebounce(t *testing.T) {
	agg := NewAggregator(testLogger())
	agg.Update(SourceSlides, FetchDone)
	agg.Update(SourceNews, FetchDone)
	agg.Update(SourceTestimonials, FetchDone)

	var got []AggregateStatus
	agg.Status().Observe(func(s AggregateStatus) { got = append(got, s) })
	got = nil

	const flips = 6
	for i := 0; i < flips; i++ {
		if i%2 == 0 {
			agg.Update(SourceNews, FetchError)
		} else {
			agg.Update(SourceNews, FetchDone)
		}
	}

	require.Len(t, got, flips)
	for i, s := range got {
		if i%2 == 0 {
			assert.Equal(t, ErrorNews, s)
		} else {
			assert.Equal(t, Done, s)
		}
	}
}

func TestAggregator_AddSource(t *testing.T) {
	agg := NewAggregator(testLogger())
	slides := observe.NewValue[FetchStatus]()
	news := observe.NewValue[FetchStatus]()
	testimonials := observe.NewValue[FetchStatus]()

	subs := []*observe.Subscription{
		agg.AddSource(SourceSlides, slides),
		agg.AddSource(SourceNews, news),
		agg.AddSource(SourceTestimonials, testimonials),
	}

	count := 0
	var last AggregateStatus
	agg.Status().Observe(func(s AggregateStatus) {
		count++
		last = s
	})

	slides.Set(FetchError)
	assert.Equal(t, 1, count)
	assert.Equal(t, Loading, last)

	news.Set(FetchDone)
	testimonials.Set(FetchDone)
	assert.Equal(t, 3, count)
	assert.Equal(t, ErrorSlides, last)
	assert.Equal(t, ClassSlides, agg.Classify())

	for _, s := range subs {
		s.Cancel()
	}
	slides.Set(FetchDone)
	assert.Equal(t, 3, count)
	assert.Equal(t, ErrorSlides, agg.Current())
}

func TestAggregator_IgnoresUnknownSource(t *testing.T) {
	agg := NewAggregator(testLogger())
	calls := 0
	agg.Status().Observe(func(AggregateStatus) { calls++ })

	assert.Equal(t, Loading, agg.Update(Source(7), FetchError))
	assert.Zero(t, calls)
}
