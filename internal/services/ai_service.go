package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/models"
	"github.com/sashabaranov/go-openai"
)

// AIService turns free-form text (meeting notes, emails) into task
// drafts an admin can review before creating real tasks.
type AIService struct {
	client *openai.Client
	now    func() time.Time
}

// TaskDraft is a suggested task. Nothing is persisted until an admin
// accepts the draft through the normal task creation path.
type TaskDraft struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
}

// NewAIService creates a new AIService
func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		now:    time.Now,
	}
}

// GenerateTaskDrafts extracts task drafts from text. Drafts with empty
// titles or due dates already in the past are dropped, and the result
// is capped at MaxSuggestedTasks.
func (s *AIService) GenerateTaskDrafts(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	now := s.now()
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of the extracted tasks in this exact shape:
[
  {
    "title": "short task title",
    "description": "task details",
    "due_date": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when no deadline is stated",
    "priority": "low, medium, or high"
  }
]

Rules:
- Return an empty array [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into concrete timestamps
- due_date must be an ISO8601 string or null
- Return only the JSON, no surrounding prose`, now.Format("2006-01-02 15:04:05"), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return cleanDrafts(drafts, now), nil
}

func cleanDrafts(drafts []TaskDraft, now time.Time) []TaskDraft {
	cleaned := make([]TaskDraft, 0, len(drafts))
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Title) == "" {
			continue
		}
		if draft.DueDate != nil && draft.DueDate.Before(now) {
			draft.DueDate = nil
		}
		if !draft.Priority.Valid() {
			draft.Priority = models.TaskPriorityMedium
		}
		cleaned = append(cleaned, draft)
		if len(cleaned) == constants.MaxSuggestedTasks {
			break
		}
	}
	return cleaned
}
