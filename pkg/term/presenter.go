package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"ong-client/pkg/content"
	"ong-client/pkg/models"
	"ong-client/pkg/observe"
	"ong-client/pkg/screen"
)

const summaryWidth = 80

// Presenter renders both screens as text. With an input reader it asks
// before retrying; without one every dialog is printed and dismissed.
type Presenter struct {
	mu        sync.Mutex
	out       io.Writer
	in        *bufio.Reader
	poster    observe.Poster
	onDismiss func(screen.Dialog)
	loading   bool
	log       *logrus.Entry
}

// New returns a presenter writing to out. in may be nil.
func New(out io.Writer, in io.Reader, log *logrus.Entry) *Presenter {
	p := &Presenter{
		out:    out,
		poster: observe.Immediate{},
		log:    log,
	}
	if in != nil {
		p.in = bufio.NewReader(in)
	}
	return p
}

// Attach sets where retries are posted and what runs when a dialog is dismissed
func (p *Presenter) Attach(poster observe.Poster, onDismiss func(screen.Dialog)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if poster != nil {
		p.poster = poster
	}
	p.onDismiss = onDismiss
}

// Interactive reports whether dialogs prompt for an answer
func (p *Presenter) Interactive() bool {
	return p.in != nil
}

func (p *Presenter) ShowLoading(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if on && !p.loading {
		p.printf("Cargando...\n")
	}
	p.loading = on
}

func (p *Presenter) HideContent() {
	p.log.Debug("Content hidden")
}

func (p *Presenter) RenderSlides(items []models.Slide) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printf("\n== Slides (%d) ==\n", len(items))
	for _, s := range items {
		p.item(s.Name, s.Description, s.Image)
	}
}

func (p *Presenter) RenderNews(items []models.News) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printf("\n== Novedades (%d) ==\n", len(items))
	for _, n := range items {
		p.item(n.Name, n.Content, n.Image)
	}
}

func (p *Presenter) RenderTestimonials(items []models.Testimonial) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printf("\n== Testimonios (%d) ==\n", len(items))
	for _, t := range items {
		p.item(t.Name, t.Description, t.Image)
	}
}

func (p *Presenter) RenderMembers(items []models.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printf("\n== Miembros (%d) ==\n", len(items))
	for _, m := range items {
		p.item(m.Name, m.Description, m.Image)
		if m.FacebookURL != "" {
			p.printf("    facebook: %s\n", m.FacebookURL)
		}
		if m.LinkedinURL != "" {
			p.printf("    linkedin: %s\n", m.LinkedinURL)
		}
	}
}

// ShowDialog prints the dialog. When interactive the answer is read on a
// separate goroutine so the UI thread is never blocked on input.
func (p *Presenter) ShowDialog(d screen.Dialog) {
	p.mu.Lock()
	p.printf("\n[%s] %s\n", d.Title, d.Message)
	poster, onDismiss := p.poster, p.onDismiss
	if p.in == nil {
		p.mu.Unlock()
		if onDismiss != nil {
			onDismiss(d)
		}
		return
	}
	p.printf("%s? [s/N]: ", d.ActionLabel)
	p.mu.Unlock()

	go func() {
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			p.log.Debugf("Dialog prompt closed: %v", err)
		}
		if isYes(line) {
			if !poster.Post(d.Accept) {
				p.log.Warn("Retry dropped, screen already closed")
			}
			return
		}
		if onDismiss != nil {
			onDismiss(d)
		}
	}()
}

func (p *Presenter) item(name, html, image string) {
	p.printf("  - %s\n", name)
	if summary := content.Summary(html, summaryWidth); summary != "" {
		p.printf("    %s\n", summary)
	}
	if image == "" {
		image = content.FirstImage(html)
	}
	if image != "" {
		p.printf("    imagen: %s\n", image)
	}
}

func (p *Presenter) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.log.Debugf("Write failed: %v", err)
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}
