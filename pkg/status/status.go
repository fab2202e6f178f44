package status

// FetchStatus is the load state reported by a single data source
type FetchStatus int

const (
	FetchLoading FetchStatus = iota // Fetch in progress, or nothing reported yet
	FetchDone                       // Fetch completed successfully
	FetchError                      // Fetch failed
)

// String implements fmt.Stringer for logging
func (s FetchStatus) String() string {
	switch s {
	case FetchLoading:
		return "loading"
	case FetchDone:
		return "done"
	case FetchError:
		return "error"
	}
	return "unknown"
}

// AggregateStatus summarises the fetch statuses of every source on a screen
type AggregateStatus int

const (
	Loading AggregateStatus = iota
	Done
	ErrorGeneral
	ErrorSlides
	ErrorNews
	ErrorTestimonials
)

// String implements fmt.Stringer for logging
func (s AggregateStatus) String() string {
	switch s {
	case Loading:
		return "loading"
	case Done:
		return "done"
	case ErrorGeneral:
		return "error_general"
	case ErrorSlides:
		return "error_slides"
	case ErrorNews:
		return "error_news"
	case ErrorTestimonials:
		return "error_testimonials"
	}
	return "unknown"
}

// IsError reports whether s is one of the error variants
func (s AggregateStatus) IsError() bool {
	return s.Class() != ClassNone
}

// Class returns the error code matching s, or ClassNone for Loading and Done
func (s AggregateStatus) Class() ErrorClass {
	switch s {
	case ErrorGeneral:
		return ClassGeneral
	case ErrorSlides:
		return ClassSlides
	case ErrorNews:
		return ClassNews
	case ErrorTestimonials:
		return ClassTestimonials
	}
	return ClassNone
}

// ErrorClass is the numeric code used to pick a recovery dialog.
// Codes 3..5 identify a single failing source, 2 means two or more failed.
type ErrorClass int

const (
	ClassNone         ErrorClass = 0
	ClassGeneral      ErrorClass = 2
	ClassSlides       ErrorClass = 3
	ClassNews         ErrorClass = 4
	ClassTestimonials ErrorClass = 5
)

// Status returns the aggregate error variant for c, or Done for ClassNone
func (c ErrorClass) Status() AggregateStatus {
	switch c {
	case ClassGeneral:
		return ErrorGeneral
	case ClassSlides:
		return ErrorSlides
	case ClassNews:
		return ErrorNews
	case ClassTestimonials:
		return ErrorTestimonials
	}
	return Done
}

// Source identifies one of the three aggregated inputs
type Source int

const (
	SourceSlides Source = iota
	SourceNews
	SourceTestimonials
)

// Sources lists every aggregated input in tie-break order
var Sources = [...]Source{SourceSlides, SourceNews, SourceTestimonials}

// String implements fmt.Stringer for logging
func (s Source) String() string {
	switch s {
	case SourceSlides:
		return "slides"
	case SourceNews:
		return "news"
	case SourceTestimonials:
		return "testimonials"
	}
	return "unknown"
}

// Valid reports whether s names one of the aggregated inputs
func (s Source) Valid() bool {
	return s >= SourceSlides && s <= SourceTestimonials
}
