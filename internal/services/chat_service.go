package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	// MedicalDisclaimer closes every answer exactly once, remote or
	// fallback.
	MedicalDisclaimer = "This is not medical advice."

	chatNoInfoMessage = "I do not have that information in the current medicine context."

	chatMaxHistoryTurns = 8
	chatMaxTurnLength   = 4000
	chatMaxContextLen   = 15000
	chatFallbackLines   = 4
)

var ErrChatNotConfigured = errors.New("chat backend not configured")

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	Context string     `json:"context"`
	History []ChatTurn `json:"history"`
}

type chatResponse struct {
	Reply  string `json:"reply"`
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ChatService answers questions against an assembled context. It never
// fails outward: any backend problem degrades to a deterministic
// keyword-retrieval answer over the context text.
type ChatService struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewChatService(endpoint string, apiKey string) *ChatService {
	return &ChatService{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ask produces an answer from the remote backend or the local
// fallback. Every answer ends with the medical disclaimer exactly once.
func (service *ChatService) Ask(ctx context.Context, question string, contextText string, history []ChatTurn) string {
	answer, err := service.askRemote(ctx, question, contextText, history)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil && !errors.Is(err, ErrChatNotConfigured) {
			log.Printf("chat: remote backend failed, using fallback: %v", err)
		}
		answer = FallbackAnswer(question, contextText)
	}
	return ensureDisclaimer(answer)
}

func (service *ChatService) askRemote(ctx context.Context, question string, contextText string, history []ChatTurn) (string, error) {
	if service.endpoint == "" {
		return "", ErrChatNotConfigured
	}

	payload := chatRequest{
		Message: capLength(question, chatMaxTurnLength),
		Context: capLength(contextText, chatMaxContextLen),
		History: TrimHistory(history),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, service.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if service.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+service.apiKey)
	}

	resp, err := service.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	decoded := chatResponse{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend status %d: %s", resp.StatusCode, decoded.Error)
	}
	return decoded.Reply, nil
}

// TrimHistory keeps the last turns and caps each turn's length so the
// outbound payload stays bounded.
func TrimHistory(history []ChatTurn) []ChatTurn {
	if len(history) > chatMaxHistoryTurns {
		history = history[len(history)-chatMaxHistoryTurns:]
	}
	trimmed := make([]ChatTurn, 0, len(history))
	for _, turn := range history {
		role := turn.Role
		if role != ChatRoleAssistant {
			role = ChatRoleUser
		}
		trimmed = append(trimmed, ChatTurn{
			Role:    role,
			Content: capLength(turn.Content, chatMaxTurnLength),
		})
	}
	return trimmed
}

// FallbackAnswer scores each non-empty context line by how many
// distinct terms of the lowercased question it contains and
// concatenates the top lines, ties broken by original order.
func FallbackAnswer(question string, contextText string) string {
	terms := distinctTerms(question)

	lines := make([]string, 0)
	for _, line := range strings.Split(contextText, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	type scoredLine struct {
		index int
		score int
	}
	scored := make([]scoredLine, 0, len(lines))
	for index, line := range lines {
		lowered := strings.ToLower(line)
		score := 0
		for term := range terms {
			if strings.Contains(lowered, term) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredLine{index: index, score: score})
		}
	}
	if len(scored) == 0 {
		return chatNoInfoMessage
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > chatFallbackLines {
		scored = scored[:chatFallbackLines]
	}

	parts := make([]string, 0, len(scored))
	for _, hit := range scored {
		parts = append(parts, lines[hit.index])
	}
	return strings.Join(parts, " ")
}

func distinctTerms(question string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, term := range strings.Fields(strings.ToLower(question)) {
		terms[term] = struct{}{}
	}
	return terms
}

func ensureDisclaimer(answer string) string {
	answer = strings.TrimSpace(answer)
	if strings.HasSuffix(answer, MedicalDisclaimer) {
		return answer
	}
	return answer + "\n\n" + MedicalDisclaimer
}

func capLength(value string, maxLength int) string {
	if len(value) > maxLength {
		return value[:maxLength]
	}
	return value
}
