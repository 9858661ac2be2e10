package agent

import (
	"time"

	"mentorline/utils"

	"go.uber.org/zap"
)

// Event is the structured side-channel record of one tool invocation,
// mirrored to observers (frontend push, logs) in real time.
type Event struct {
	SessionID string         `json:"sessionId"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args,omitempty"`
	Result    string         `json:"result"`
	Timestamp time.Time      `json:"timestamp"`
}

// Observer receives tool-invocation events. Implementations must not block;
// the dispatcher calls them inline on the conversation turn.
type Observer interface {
	ToolInvoked(event Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event Event)

func (f ObserverFunc) ToolInvoked(event Event) { f(event) }

// LogObserver mirrors every tool invocation to the structured log.
type LogObserver struct{}

func (LogObserver) ToolInvoked(event Event) {
	utils.GetLogger().Info("tool invoked",
		zap.String("sessionId", event.SessionID),
		zap.String("tool", event.Tool),
		zap.Any("args", event.Args),
		zap.String("result", event.Result))
}
