package term

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "ong-client/pkg/log"
	"ong-client/pkg/models"
	"ong-client/pkg/screen"
)

// chanPoster hands posted work to the test goroutine
type chanPoster chan func()

func (c chanPoster) Post(fn func()) bool {
	c <- fn
	return true
}

// syncBuffer guards a bytes.Buffer written from the prompt goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestPresenter_RendersLists(t *testing.T) {
	out := &syncBuffer{}
	p := New(out, nil, applog.Discard())

	p.ShowLoading(true)
	p.ShowLoading(true)
	p.RenderSlides([]models.Slide{{Name: "Campaña", Description: "<p>Juguetes <b>2021</b></p>", Image: "http://img/s.png"}})
	p.RenderNews([]models.News{{Name: "Novedad", Content: `<p>texto</p><img src="http://img/n.png">`}})
	p.RenderTestimonials([]models.Testimonial{{Name: "Marita"}})
	p.RenderMembers([]models.Member{{Name: "Ana", FacebookURL: "fb/ana"}})
	p.ShowLoading(false)

	got := out.String()
	assert.Equal(t, 1, strings.Count(got, "Cargando..."))
	assert.Contains(t, got, "== Slides (1) ==")
	assert.Contains(t, got, "  - Campaña\n    Juguetes **2021**\n    imagen: http://img/s.png")
	assert.Contains(t, got, "imagen: http://img/n.png")
	assert.Contains(t, got, "== Testimonios (1) ==\n  - Marita\n")
	assert.Contains(t, got, "== Miembros (1) ==")
	assert.Contains(t, got, "facebook: fb/ana")
}

func TestPresenter_NonInteractiveDismisses(t *testing.T) {
	out := &syncBuffer{}
	p := New(out, nil, applog.Discard())
	var dismissed []string
	p.Attach(nil, func(d screen.Dialog) { dismissed = append(dismissed, d.Message) })

	retried := false
	p.ShowDialog(screen.RetryDialog(screen.MsgNews, func() { retried = true }))

	assert.False(t, p.Interactive())
	assert.False(t, retried)
	assert.Equal(t, []string{"Error al cargar novedades"}, dismissed)
	assert.Contains(t, out.String(), "[Error] Error al cargar novedades")
}

func TestPresenter_InteractiveRetryIsPosted(t *testing.T) {
	out := &syncBuffer{}
	p := New(out, strings.NewReader("s\n"), applog.Discard())
	posted := make(chanPoster, 1)
	p.Attach(posted, func(screen.Dialog) { t.Error("unexpected dismiss") })

	retried := false
	p.ShowDialog(screen.RetryDialog(screen.MsgSlides, func() { retried = true }))

	select {
	case fn := <-posted:
		assert.False(t, retried, "retry must wait for the UI thread")
		fn()
	case <-time.After(time.Second):
		t.Fatal("retry was not posted")
	}
	assert.True(t, retried)
	assert.Contains(t, out.String(), "Reintentar? [s/N]: ")
}

func TestPresenter_InteractiveNoDismisses(t *testing.T) {
	p := New(&syncBuffer{}, strings.NewReader("n\n"), applog.Discard())
	dismissed := make(chan screen.Dialog, 1)
	p.Attach(make(chanPoster), func(d screen.Dialog) { dismissed <- d })

	p.ShowDialog(screen.RetryDialog(screen.MsgMembers, nil))

	select {
	case d := <-dismissed:
		assert.Equal(t, screen.MsgMembers, d.Message)
	case <-time.After(time.Second):
		t.Fatal("dialog was not dismissed")
	}
}

func TestIsYes(t *testing.T) {
	for _, a := range []string{"s", "S\n", " si ", "sí", "y", "YES"} {
		require.True(t, isYes(a), a)
	}
	for _, a := range []string{"", "n", "no", "x"} {
		require.False(t, isYes(a), a)
	}
}
