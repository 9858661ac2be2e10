package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mentorline/config"
	"mentorline/services/agent"
	"mentorline/utils"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const systemPrompt = "You are a friendly scheduling assistant for a mentoring service. " +
	"Help the caller book, review, move or cancel appointments using the tools available. " +
	"Always identify the caller before booking. Keep replies short and conversational. " +
	"Never mention internal IDs or costs."

// maxToolRounds bounds the function-call loop per caller turn.
const maxToolRounds = 8

// GeminiAgent drives a conversation with Gemini as the decision-maker,
// executing the function calls it selects through the tool dispatcher.
type GeminiAgent struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	dispatcher *agent.Dispatcher

	// Converse runs on a goroutine per HTTP request, so the per-session
	// chat map is guarded.
	mu    sync.Mutex
	chats map[string]*genai.ChatSession
}

// NewGeminiAgent connects to Gemini and exports the registry's tools as
// function declarations.
func NewGeminiAgent(ctx context.Context, registry *agent.Registry, dispatcher *agent.Dispatcher) (*GeminiAgent, error) {
	apiKey := config.AppConfig.GeminiAPIKey
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(config.AppConfig.GeminiModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.Tools = []*genai.Tool{{FunctionDeclarations: declarations(registry)}}

	return &GeminiAgent{
		client:     client,
		model:      model,
		dispatcher: dispatcher,
		chats:      make(map[string]*genai.ChatSession),
	}, nil
}

// declarations converts the registry's tool schemas into Gemini function
// declarations.
func declarations(registry *agent.Registry) []*genai.FunctionDeclaration {
	tools := registry.List()
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		if len(t.Params) > 0 {
			props := make(map[string]*genai.Schema, len(t.Params))
			var required []string
			for _, p := range t.Params {
				props[p.Name] = &genai.Schema{
					Type:        genai.TypeString,
					Description: p.Description,
				}
				if p.Required {
					required = append(required, p.Name)
				}
			}
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

// Converse sends one caller turn to the model, executes any function calls
// it selects and returns the model's final text reply.
func (g *GeminiAgent) Converse(ctx context.Context, sessionID, userText string) (string, error) {
	chat := g.chatFor(sessionID)

	resp, err := chat.SendMessage(ctx, genai.Text(userText))
	if err != nil {
		return "", fmt.Errorf("failed to send message to Gemini: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := g.dispatcher.Invoke(ctx, sessionID, call.Name, call.Args)
			if err != nil {
				utils.GetLogger().Error("tool invocation failed",
					zap.String("sessionId", sessionID),
					zap.String("tool", call.Name),
					zap.Error(err))
				result = "Something went wrong on our side. Please try again."
			}
			replies = append(replies, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]any{"result": result},
			})
		}
		resp, err = chat.SendMessage(ctx, replies...)
		if err != nil {
			return "", fmt.Errorf("failed to return tool results to Gemini: %w", err)
		}
	}
	return textOf(resp), nil
}

// chatFor returns the session's chat, starting a fresh one on first use.
func (g *GeminiAgent) chatFor(sessionID string) *genai.ChatSession {
	g.mu.Lock()
	defer g.mu.Unlock()

	chat, ok := g.chats[sessionID]
	if !ok {
		chat = g.model.StartChat()
		g.chats[sessionID] = chat
	}
	return chat
}

// Forget drops the chat history for an ended session.
func (g *GeminiAgent) Forget(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.chats, sessionID)
}

// Close releases the underlying client.
func (g *GeminiAgent) Close() error {
	return g.client.Close()
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, fc)
			}
		}
	}
	return calls
}

func textOf(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	return b.String()
}
