package models

import "time"

// SessionStatus is the lifecycle state of a conversation session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// IsTerminal reports whether the session accepts no further transitions.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// ActionEntry is one tool invocation recorded on a session's action log.
type ActionEntry struct {
	Tool      string         `bson:"tool" json:"tool"`
	Args      map[string]any `bson:"args,omitempty" json:"args,omitempty"`
	Result    string         `bson:"result" json:"result"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
}

// CostMeters accumulates usage units pushed by the external speech/LLM
// pipeline. Attached 1:1 to a session, never shared.
type CostMeters struct {
	SpeechSeconds   float64 `bson:"speechSeconds" json:"speechSeconds"`
	SynthesizedChars int64  `bson:"synthesizedChars" json:"synthesizedChars"`
	LLMInputTokens  int64   `bson:"llmInputTokens" json:"llmInputTokens"`
	LLMOutputTokens int64   `bson:"llmOutputTokens" json:"llmOutputTokens"`
}

// Add accumulates a usage delta additively.
func (m *CostMeters) Add(d UsageDelta) {
	m.SpeechSeconds += d.SpeechSeconds
	m.SynthesizedChars += d.SynthesizedChars
	m.LLMInputTokens += d.LLMInputTokens
	m.LLMOutputTokens += d.LLMOutputTokens
}

// UsageDelta is one increment from the external usage-metering feed.
type UsageDelta struct {
	SpeechSeconds    float64 `json:"speechSeconds"`
	SynthesizedChars int64   `json:"synthesizedCharacters"`
	LLMInputTokens   int64   `json:"modelInputTokens"`
	LLMOutputTokens  int64   `json:"modelOutputTokens"`
}

// CostBreakdown is the priced view of a session's meters. Administrative
// only; never included in caller-facing text.
type CostBreakdown struct {
	SpeechToText   float64 `bson:"speechToText" json:"speechToText"`
	TextToSpeech   float64 `bson:"textToSpeech" json:"textToSpeech"`
	LLMInput       float64 `bson:"llmInput" json:"llmInput"`
	LLMOutput      float64 `bson:"llmOutput" json:"llmOutput"`
	Total          float64 `bson:"total" json:"total"`
}

// ConversationSession is one voice/chat interaction: identity binding,
// ordered action log and cost meters.
type ConversationSession struct {
	ID              string        `bson:"id" json:"id"`
	CallerIdentity  string        `bson:"callerIdentity,omitempty" json:"callerIdentity,omitempty"`
	Status          SessionStatus `bson:"status" json:"status"`
	StartedAt       time.Time     `bson:"startedAt" json:"startedAt"`
	EndedAt         *time.Time    `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	LastActivityAt  time.Time     `bson:"lastActivityAt" json:"lastActivityAt"`
	DurationSeconds int           `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	Summary         string        `bson:"summary,omitempty" json:"summary,omitempty"`
	ActionLog       []ActionEntry `bson:"actionLog,omitempty" json:"actionLog,omitempty"`
	Meters          CostMeters    `bson:"meters" json:"meters"`
	Cost            *CostBreakdown `bson:"cost,omitempty" json:"cost,omitempty"`
}

// CallerAppointments groups a caller's appointments by status for the
// context aggregate.
type CallerAppointments struct {
	Booked         []Appointment `json:"booked"`
	Pending        []Appointment `json:"pending"`
	CompletedCount int           `json:"completedCount"`
	CancelledCount int           `json:"cancelledCount"`
}

// LastSessionInfo is the prior-session pointer surfaced in greetings.
type LastSessionInfo struct {
	Date    *time.Time `json:"date,omitempty"`
	Summary string     `json:"summary,omitempty"`
}

// CallerContext is the read aggregate consumed once per identify call.
type CallerContext struct {
	Caller        Caller             `json:"caller"`
	IsReturning   bool               `json:"isReturning"`
	TotalSessions int                `json:"totalSessions"`
	Appointments  CallerAppointments `json:"appointments"`
	LastSession   LastSessionInfo    `json:"lastSession"`
}
