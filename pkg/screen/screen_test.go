package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "ong-client/pkg/log"
	"ong-client/pkg/models"
	"ong-client/pkg/observe"
	"ong-client/pkg/status"
)

func TestHomeMessage(t *testing.T) {
	tests := []struct {
		class status.ErrorClass
		want  string
	}{
		{status.ClassNone, ""},
		{status.ClassGeneral, "Inicio - Error general"},
		{status.ClassSlides, "Error al cargar slides"},
		{status.ClassNews, "Error al cargar novedades"},
		{status.ClassTestimonials, "Error al cargar testimonios"},
	}
	for _, tt := range tests {
		t.Run(tt.class.Status().String(), func(t *testing.T) {
			assert.Equal(t, tt.want, HomeMessage(tt.class))
		})
	}
}

func TestRetryDialog_Accept(t *testing.T) {
	retried := 0
	d := RetryDialog(MsgMembers, func() { retried++ })
	assert.Equal(t, "Error", d.Title)
	assert.Equal(t, "Reintentar", d.ActionLabel)
	d.Accept()
	assert.Equal(t, 1, retried)

	// A dialog without an action accepts as a no-op
	Dialog{}.Accept()
}

func TestSession_CloseTearsDown(t *testing.T) {
	s := NewSession(context.Background(), "home", observe.Immediate{}, applog.Discard())
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "home", s.Name)

	v := observe.NewValue[int]()
	seen := 0
	s.Scope.Add(v.Observe(func(int) { seen++ }))
	v.Set(1)
	assert.Equal(t, 1, seen)

	ran := false
	assert.True(t, s.Post(func() { ran = true }))
	assert.True(t, ran)

	s.Close()
	s.Close()
	assert.True(t, s.Closed())
	assert.Error(t, s.Context().Err())
	v.Set(2)
	assert.Equal(t, 1, seen, "observer must be cancelled by Close")
	assert.False(t, s.Post(func() { t.Error("posted after close") }))
}

func TestSession_UniqueIDs(t *testing.T) {
	a := NewSession(context.Background(), "members", nil, nil)
	b := NewSession(context.Background(), "members", nil, nil)
	defer a.Close()
	defer b.Close()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	var hooked []string
	r.OnDialog(func(d Dialog) { hooked = append(hooked, d.Message) })

	r.ShowLoading(true)
	r.RenderSlides([]models.Slide{{ID: 1}, {ID: 2}})
	r.HideContent()
	r.ShowDialog(RetryDialog(MsgSlides, nil))
	r.ShowLoading(false)

	assert.False(t, r.Loading())
	assert.True(t, r.Hidden())
	assert.Len(t, r.Slides(), 2)
	assert.Equal(t, []string{MsgSlides}, hooked)

	d, ok := r.LastDialog()
	require.True(t, ok)
	assert.Equal(t, MsgSlides, d.Message)

	calls := r.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, `loading(true)`, calls[0].String())
	assert.Equal(t, `slides(2)`, calls[1].String())
	assert.Equal(t, `hide_content`, calls[2].String())
	assert.Equal(t, `dialog("Error al cargar slides")`, calls[3].String())
	assert.Len(t, r.CallsOf(CallLoading), 2)

	r.Reset()
	assert.Empty(t, r.Calls())
	_, ok = r.LastDialog()
	assert.False(t, ok)
}
