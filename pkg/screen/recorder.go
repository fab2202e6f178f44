package screen

import (
	"fmt"
	"sync"

	"ong-client/pkg/models"
)

// Call kinds recorded by Recorder
const (
	CallLoading      = "loading"
	CallHideContent  = "hide_content"
	CallDialog       = "dialog"
	CallSlides       = "slides"
	CallNews         = "news"
	CallTestimonials = "testimonials"
	CallMembers      = "members"
)

// Call is one presenter invocation
type Call struct {
	Kind    string
	Loading bool
	Message string
	Count   int
}

func (c Call) String() string {
	switch c.Kind {
	case CallLoading:
		return fmt.Sprintf("%s(%t)", c.Kind, c.Loading)
	case CallDialog:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Message)
	case CallHideContent:
		return c.Kind
	default:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Count)
	}
}

// Recorder is a headless presenter for both screens. It keeps the latest
// rendered lists and the full call history.
type Recorder struct {
	mu           sync.Mutex
	calls        []Call
	dialogs      []Dialog
	loading      bool
	hidden       bool
	slides       []models.Slide
	news         []models.News
	testimonials []models.Testimonial
	members      []models.Member
	onDialog     func(Dialog)
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnDialog registers a hook run after each recorded dialog
func (r *Recorder) OnDialog(fn func(Dialog)) {
	r.mu.Lock()
	r.onDialog = fn
	r.mu.Unlock()
}

func (r *Recorder) ShowLoading(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = on
	r.calls = append(r.calls, Call{Kind: CallLoading, Loading: on})
}

func (r *Recorder) HideContent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = true
	r.calls = append(r.calls, Call{Kind: CallHideContent})
}

func (r *Recorder) ShowDialog(d Dialog) {
	r.mu.Lock()
	r.dialogs = append(r.dialogs, d)
	r.calls = append(r.calls, Call{Kind: CallDialog, Message: d.Message})
	hook := r.onDialog
	r.mu.Unlock()

	if hook != nil {
		hook(d)
	}
}

func (r *Recorder) RenderSlides(items []models.Slide) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slides = items
	r.hidden = false
	r.calls = append(r.calls, Call{Kind: CallSlides, Count: len(items)})
}

func (r *Recorder) RenderNews(items []models.News) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.news = items
	r.hidden = false
	r.calls = append(r.calls, Call{Kind: CallNews, Count: len(items)})
}

func (r *Recorder) RenderTestimonials(items []models.Testimonial) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.testimonials = items
	r.hidden = false
	r.calls = append(r.calls, Call{Kind: CallTestimonials, Count: len(items)})
}

func (r *Recorder) RenderMembers(items []models.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = items
	r.hidden = false
	r.calls = append(r.calls, Call{Kind: CallMembers, Count: len(items)})
}

// Calls returns a copy of the call history
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsOf returns the recorded calls of one kind
func (r *Recorder) CallsOf(kind string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Dialogs returns every dialog shown so far
func (r *Recorder) Dialogs() []Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Dialog(nil), r.dialogs...)
}

// LastDialog returns the most recent dialog
func (r *Recorder) LastDialog() (Dialog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.dialogs) == 0 {
		return Dialog{}, false
	}
	return r.dialogs[len(r.dialogs)-1], true
}

// Loading reports the last ShowLoading value
func (r *Recorder) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Hidden reports whether content was hidden after the last rendered list
func (r *Recorder) Hidden() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hidden
}

func (r *Recorder) Slides() []models.Slide {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slides
}

func (r *Recorder) News() []models.News {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.news
}

func (r *Recorder) Testimonials() []models.Testimonial {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.testimonials
}

func (r *Recorder) Members() []models.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members
}

// Reset clears the history but keeps the dialog hook
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.dialogs = nil
}
