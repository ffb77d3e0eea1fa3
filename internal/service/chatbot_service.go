package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/edushare/backend/pkg/apperror"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const chatbotBasePrompt = "You are EduShare AI, a smart and friendly academic assistant built for students. " +
	"You summarize, explain, and answer questions related to academic content in simple and structured form."

var chatbotModeInstructions = map[string]string{
	"summarize": "Your task is to summarize academic notes or text clearly in short bullet points. Focus on key points and main ideas. Be concise and well-structured.",
	"explain":   "Your task is to explain topics or definitions in beginner-friendly language. Break down complex concepts into simple terms and use examples when helpful.",
	"qa":        "Your task is to answer study-related questions concisely with examples if possible. Provide clear, accurate, and helpful responses.",
	"recommend": "Your task is to suggest relevant notes or resources. Although you cannot directly access the EduShare database yet, provide general recommendations based on the topic and explain what types of resources would be helpful.",
}

// chatbotModels is tried in order until one returns a non-empty answer.
var chatbotModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

// TextGenerator abstracts the generative-language provider so the fallback
// chain can be tested without network access.
type TextGenerator interface {
	GenerateText(ctx context.Context, modelName, systemInstruction, message string) (string, error)
	Close() error
}

type geminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates the Gemini-backed TextGenerator.
func NewGeminiGenerator(ctx context.Context, apiKey string) (TextGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiGenerator{client: client}, nil
}

func (g *geminiGenerator) GenerateText(ctx context.Context, modelName, systemInstruction, message string) (string, error) {
	model := g.client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from model")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

type ChatbotService interface {
	Chat(ctx context.Context, message, mode string) (string, error)
}

type chatbotService struct {
	generator TextGenerator
	models    []string
	timeout   time.Duration
}

// NewChatbotService wires the assistant over a TextGenerator. generator may be
// nil when the provider is unconfigured; Chat then fails cleanly.
func NewChatbotService(generator TextGenerator, timeout time.Duration) ChatbotService {
	return &chatbotService{
		generator: generator,
		models:    chatbotModels,
		timeout:   timeout,
	}
}

func (s *chatbotService) Chat(ctx context.Context, message, mode string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperror.New(0, "message is required", apperror.ErrBadRequest)
	}

	if mode == "" {
		mode = "qa"
	}
	mode = strings.ToLower(mode)
	instruction, ok := chatbotModeInstructions[mode]
	if !ok {
		return "", apperror.New(0, "invalid mode, must be one of: summarize, explain, qa, recommend", apperror.ErrBadRequest)
	}

	if s.generator == nil {
		return "", apperror.New(0, "AI service is not configured", apperror.ErrUpstream)
	}

	systemInstruction := chatbotBasePrompt + "\n\n" + instruction

	var lastErr error
	for _, modelName := range s.models {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.generator.GenerateText(attemptCtx, modelName, systemInstruction, message)
		cancel()

		if err != nil {
			log.Printf("chatbot model %s failed: %v", modelName, err)
			lastErr = err
			continue
		}

		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
	}

	if lastErr != nil {
		return "", apperror.New(0, fmt.Sprintf("all models failed: %v", lastErr), apperror.ErrUpstream)
	}
	return "", apperror.New(0, "all models returned empty responses", apperror.ErrUpstream)
}
