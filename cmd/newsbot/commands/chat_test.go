// ABOUTME: Tests for the interactive chat loop
// ABOUTME: Verifies turn handling, exit words, and recovery from failed turns

package commands

import (
	"strings"
	"testing"
)

func TestNewChatCmd(t *testing.T) {
	cmd := NewChatCmd()

	if cmd.Use != "chat" {
		t.Errorf("Use = %q, want %q", cmd.Use, "chat")
	}

	if cmd.Flags().Lookup("sources") == nil {
		t.Error("--sources flag not found")
	}
}

func TestChat_AnswersEachLine(t *testing.T) {
	useTestRuntime(t, &keywordEmbedder{})

	stdout, stderr, err := runRoot(t, "tell me about cats\n\nrockets?\nexit\nnever asked\n", "--quiet", "chat", "--sources")
	if err != nil {
		t.Fatalf("chat error = %v (stderr: %s)", err, stderr)
	}

	for _, want := range []string{
		"answer: tell me about cats",
		"answer: rockets?",
		"1. Cats",
		"1. Rockets",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output should contain %q, got:\n%s", want, stdout)
		}
	}

	if strings.Contains(stdout, "never asked") {
		t.Error("Lines after exit should not be answered")
	}
}

func TestChat_PromptAndGreeting(t *testing.T) {
	useTestRuntime(t, &keywordEmbedder{})

	stdout, _, err := runRoot(t, "quit\n", "chat")
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}

	if !strings.Contains(stdout, "Loaded 2 knowledge entries") {
		t.Errorf("Greeting should report entry count, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "> ") {
		t.Error("Prompt should be printed when not quiet")
	}
}

func TestChat_FailedTurnContinues(t *testing.T) {
	useTestRuntime(t, &keywordEmbedder{failQueries: true})

	stdout, stderr, err := runRoot(t, "cats\nrockets\n", "--quiet", "chat")
	if err != nil {
		t.Fatalf("chat should survive failed turns, got %v", err)
	}

	if got := strings.Count(stderr, "Error:"); got != 2 {
		t.Errorf("Expected 2 turn errors on stderr, got %d:\n%s", got, stderr)
	}
	if strings.Contains(stdout, "answer:") {
		t.Errorf("No reply should be printed for failed turns, got:\n%s", stdout)
	}
}
