package screen

import "ong-client/pkg/status"

const (
	DialogTitle  = "Error"
	ActionRetry  = "Reintentar"
	MsgHomeError = "Inicio - Error general"
	MsgSlides    = "Error al cargar slides"
	MsgNews      = "Error al cargar novedades"
	MsgTestimony = "Error al cargar testimonios"
	MsgMembers   = "Ocurrió un error al cargar los miembros"
)

// Dialog is a modal with a single action. Retry runs when the user accepts.
type Dialog struct {
	Title       string
	Message     string
	ActionLabel string
	Retry       func()
}

// Accept runs the retry action, if any
func (d Dialog) Accept() {
	if d.Retry != nil {
		d.Retry()
	}
}

// HomeMessage returns the dialog text for an error class, or "" for ClassNone
func HomeMessage(class status.ErrorClass) string {
	switch class {
	case status.ClassGeneral:
		return MsgHomeError
	case status.ClassSlides:
		return MsgSlides
	case status.ClassNews:
		return MsgNews
	case status.ClassTestimonials:
		return MsgTestimony
	default:
		return ""
	}
}

// RetryDialog builds the standard "Error / Reintentar" dialog
func RetryDialog(message string, retry func()) Dialog {
	return Dialog{
		Title:       DialogTitle,
		Message:     message,
		ActionLabel: ActionRetry,
		Retry:       retry,
	}
}
