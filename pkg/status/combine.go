package status

// Snapshot is the triple of source statuses at one instant
type Snapshot struct {
	Slides       FetchStatus
	News         FetchStatus
	Testimonials FetchStatus
}

// Get returns the status recorded for src
func (s Snapshot) Get(src Source) FetchStatus {
	switch src {
	case SourceSlides:
		return s.Slides
	case SourceNews:
		return s.News
	case SourceTestimonials:
		return s.Testimonials
	}
	return FetchLoading
}

// With returns a copy of s with src set to st
func (s Snapshot) With(src Source, st FetchStatus) Snapshot {
	switch src {
	case SourceSlides:
		s.Slides = st
	case SourceNews:
		s.News = st
	case SourceTestimonials:
		s.Testimonials = st
	}
	return s
}

// Combine merges three source statuses into one aggregate status.
// Loading dominates; all Done yields Done; anything else is the error
// variant selected by Classify.
func Combine(slides, news, testimonials FetchStatus) AggregateStatus {
	if slides == FetchLoading || news == FetchLoading || testimonials == FetchLoading {
		return Loading
	}
	if slides == FetchDone && news == FetchDone && testimonials == FetchDone {
		return Done
	}
	return Classify(slides, news, testimonials).Status()
}

// Classify returns the dialog code for the triple: ClassGeneral when two or
// more sources failed, the failing source's code when exactly one did, and
// ClassNone when nothing failed.
func Classify(slides, news, testimonials FetchStatus) ErrorClass {
	failed := 0
	class := ClassNone
	if slides == FetchError {
		failed++
		class = ClassSlides
	}
	if news == FetchError {
		failed++
		class = ClassNews
	}
	if testimonials == FetchError {
		failed++
		class = ClassTestimonials
	}
	if failed >= 2 {
		return ClassGeneral
	}
	return class
}

// Combine is the aggregate status of the snapshot
func (s Snapshot) Combine() AggregateStatus {
	return Combine(s.Slides, s.News, s.Testimonials)
}

// Classify is the error class of the snapshot
func (s Snapshot) Classify() ErrorClass {
	return Classify(s.Slides, s.News, s.Testimonials)
}
