package home

import (
	"context"
	"time"

	"ong-client/pkg/models"
	"ong-client/pkg/screen"
	"ong-client/pkg/source"
	"ong-client/pkg/status"
)

// ContentAPI is what the home screen needs from the backend
type ContentAPI interface {
	Slides(ctx context.Context) ([]models.Slide, error)
	News(ctx context.Context) ([]models.News, error)
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
}

// ViewModel owns the three home loaders and their aggregator for one session
type ViewModel struct {
	slides       *source.Loader[[]models.Slide]
	news         *source.Loader[[]models.News]
	testimonials *source.Loader[[]models.Testimonial]
	agg          *status.Aggregator
}

// NewViewModel binds the loaders to the session context and poster
func NewViewModel(sess *screen.Session, api ContentAPI, fetchTimeout time.Duration) *ViewModel {
	opts := source.Options{
		Timeout: fetchTimeout,
		Poster:  sess.Poster(),
		Log:     sess.Log,
	}
	ctx := sess.Context()
	return &ViewModel{
		slides:       source.New(ctx, "slides", api.Slides, opts),
		news:         source.New(ctx, "news", api.News, opts),
		testimonials: source.New(ctx, "testimonials", api.Testimonials, opts),
		agg:          status.NewAggregator(sess.Log),
	}
}

func (vm *ViewModel) GetSlides()       { vm.slides.Trigger() }
func (vm *ViewModel) GetNews()         { vm.news.Trigger() }
func (vm *ViewModel) GetTestimonials() { vm.testimonials.Trigger() }

// UpdateHome re-triggers every home fetch
func (vm *ViewModel) UpdateHome() {
	vm.GetSlides()
	vm.GetNews()
	vm.GetTestimonials()
}

func (vm *ViewModel) Slides() *source.Loader[[]models.Slide] {
	return vm.slides
}

func (vm *ViewModel) News() *source.Loader[[]models.News] {
	return vm.news
}

func (vm *ViewModel) Testimonials() *source.Loader[[]models.Testimonial] {
	return vm.testimonials
}

// Aggregator merges the three loader statuses
func (vm *ViewModel) Aggregator() *status.Aggregator {
	return vm.agg
}

// Wait blocks until no fetch goroutine is running
func (vm *ViewModel) Wait() {
	vm.slides.Wait()
	vm.news.Wait()
	vm.testimonials.Wait()
}

// Close cancels the loaders
func (vm *ViewModel) Close() {
	vm.slides.Close()
	vm.news.Close()
	vm.testimonials.Close()
}
