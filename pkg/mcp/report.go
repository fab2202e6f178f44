package mcp

import (
	"strings"
	"time"

	"ong-client/pkg/content"
	"ong-client/pkg/models"
	"ong-client/pkg/screen"
)

const summaryLen = 160

// Item is one rendered list entry in a report
type Item struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
	Image   string `json:"image,omitempty"`
}

// DialogInfo is a dialog the headless presenter received
type DialogInfo struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Report is what a headless screen run looked like to the user
type Report struct {
	Screen       string       `json:"screen"`
	Status       string       `json:"status"`
	ErrorClass   int          `json:"error_class,omitempty"`
	Dialogs      []DialogInfo `json:"dialogs,omitempty"`
	Slides       []Item       `json:"slides,omitempty"`
	News         []Item       `json:"news,omitempty"`
	Testimonials []Item       `json:"testimonials,omitempty"`
	Members      []Item       `json:"members,omitempty"`
	Duration     string       `json:"duration"`
}

func newReport(name, status string, rec *screen.Recorder, took time.Duration) *Report {
	r := &Report{
		Screen:   name,
		Status:   status,
		Duration: took.Round(time.Millisecond).String(),
	}
	for _, d := range rec.Dialogs() {
		r.Dialogs = append(r.Dialogs, DialogInfo{Title: d.Title, Message: d.Message, Action: d.ActionLabel})
	}
	for _, s := range rec.Slides() {
		r.Slides = append(r.Slides, newItem(s.ID, s.Name, s.Description, s.Image))
	}
	for _, n := range rec.News() {
		r.News = append(r.News, newItem(n.ID, n.Name, n.Content, n.Image))
	}
	for _, t := range rec.Testimonials() {
		r.Testimonials = append(r.Testimonials, newItem(t.ID, t.Name, t.Description, t.Image))
	}
	return r
}

func newItem(id int, name, html, image string) Item {
	if image == "" {
		image = content.FirstImage(html)
	}
	return Item{ID: id, Name: name, Summary: content.Summary(html, summaryLen), Image: image}
}

// filterMembers keeps members whose name or description text contains
// query, with the summary centred on the match
func filterMembers(members []models.Member, query string) []Item {
	query = strings.TrimSpace(query)
	items := make([]Item, 0, len(members))
	for _, m := range members {
		if query == "" {
			items = append(items, newItem(m.ID, m.Name, m.Description, m.Image))
			continue
		}
		text, _ := content.ToText(m.Description)
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(m.Name), q) && !strings.Contains(strings.ToLower(text), q) {
			continue
		}
		item := newItem(m.ID, m.Name, m.Description, m.Image)
		if strings.Contains(strings.ToLower(text), q) {
			item.Summary = extractSnippet(text, query, summaryLen)
		}
		items = append(items, item)
	}
	return items
}

// extractSnippet extracts a snippet around the query match, slicing on rune
// boundaries so multi-byte UTF-8 characters are never split.
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	queryRunes := []rune(strings.ToLower(query))
	contentLowerRunes := []rune(strings.ToLower(content))

	idx := -1
	for i := 0; i <= len(contentLowerRunes)-len(queryRunes); i++ {
		if string(contentLowerRunes[i:i+len(queryRunes)]) == string(queryRunes) {
			idx = i
			break
		}
	}

	if idx == -1 {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	start := idx - maxLen/2
	if start < 0 {
		start = 0
	}
	end := idx + len(queryRunes) + maxLen/2
	if end > len(runes) {
		end = len(runes)
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}
