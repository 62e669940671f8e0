package format

type Tone string

const (
	ToneMuted   Tone = "muted"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneNone    Tone = ""
)

// ConversationStatus is a display descriptor for a conversation's free-form status.
type ConversationStatus struct {
	Value string
	Label string
	Tone  Tone
	Known bool
}

var knownStatuses = map[string]ConversationStatus{
	"idle":      {Value: "idle", Label: "Idle", Tone: ToneMuted, Known: true},
	"active":    {Value: "active", Label: "Active", Tone: ToneWarning, Known: true},
	"busy":      {Value: "busy", Label: "Busy", Tone: ToneWarning, Known: true},
	"completed": {Value: "completed", Label: "Completed", Tone: ToneSuccess, Known: true},
	"error":     {Value: "error", Label: "Error", Tone: ToneError, Known: true},
}

// KnownStatuses lists the allowlisted values in filter order.
var KnownStatuses = []string{"idle", "active", "busy", "completed", "error"}

// Status describes s. Values outside the allowlist pass through unstyled.
func Status(s string) ConversationStatus {
	if cs, ok := knownStatuses[s]; ok {
		return cs
	}
	return ConversationStatus{Value: s, Label: s, Tone: ToneNone}
}
