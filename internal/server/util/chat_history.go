package util

import (
	"github.com/pkoukk/tiktoken-go"

	"sage/pkg/ai"
)

const (
	// DefaultHistoryTokenBudget bounds the chat history sent to the model
	// so the tutoring context and question always fit.
	DefaultHistoryTokenBudget = 4096

	messageTokenOverhead = 8
)

// CountTokens estimates the token count of a message using the o200k_base
// encoding. Falls back to a character heuristic if the encoding is
// unavailable.
func CountTokens(text string) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// TrimHistoryToBudget drops the oldest messages until the remaining
// history fits the token budget. The newest message is always kept, even
// when it alone exceeds the budget.
func TrimHistoryToBudget(messages []ai.ChatMessage, maxTokens int) []ai.ChatMessage {
	if len(messages) == 0 {
		return messages
	}
	if maxTokens <= 0 {
		maxTokens = DefaultHistoryTokenBudget
	}

	total := 0
	start := len(messages)
	for i := len(messages) - 1; i >= 0; i-- {
		cost := CountTokens(messages[i].Message) + messageTokenOverhead
		if total+cost > maxTokens && start < len(messages) {
			break
		}
		total += cost
		start = i
	}

	return messages[start:]
}
