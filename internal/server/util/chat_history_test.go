package util

import (
	"reflect"
	"testing"

	"sage/pkg/ai"
)

func TestTrimHistoryToBudgetEmpty(t *testing.T) {
	got := TrimHistoryToBudget(nil, 100)
	if len(got) != 0 {
		t.Errorf("expected empty history, got %v", got)
	}
}

func TestTrimHistoryToBudgetKeepsAllWithinBudget(t *testing.T) {
	messages := []ai.ChatMessage{
		{Role: "user", Message: "first question"},
		{Role: "assistant", Message: "first answer"},
		{Role: "user", Message: "second question"},
	}

	got := TrimHistoryToBudget(messages, 100000)
	if !reflect.DeepEqual(got, messages) {
		t.Errorf("expected full history, got %v", got)
	}
}

func TestTrimHistoryToBudgetKeepsNewest(t *testing.T) {
	messages := []ai.ChatMessage{
		{Role: "user", Message: "an old message that should be dropped"},
		{Role: "assistant", Message: "another old message"},
		{Role: "user", Message: "the newest message"},
	}

	got := TrimHistoryToBudget(messages, 1)
	want := messages[2:]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TrimHistoryToBudget() = %v, want %v", got, want)
	}
}

func TestTrimHistoryToBudgetDropsOldestFirst(t *testing.T) {
	messages := []ai.ChatMessage{
		{Role: "user", Message: "oldest"},
		{Role: "assistant", Message: "middle"},
		{Role: "user", Message: "newest"},
	}

	got := TrimHistoryToBudget(messages, 30)
	if len(got) == 0 {
		t.Fatal("expected at least the newest message")
	}
	if got[len(got)-1].Message != "newest" {
		t.Errorf("newest message missing, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Message == "newest" {
			t.Errorf("order not preserved: %v", got)
		}
	}
}
