package clarify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeClarifier struct {
	out string
	err error
}

func (f fakeClarifier) Clarify(ctx context.Context, itemDescription string) (string, error) {
	return f.out, f.err
}

func TestRunSuccess(t *testing.T) {
	res := Run(context.Background(), fakeClarifier{out: "CNC machining, 2 hours"}, "cnc stuff")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.ClarifiedDescription != "CNC machining, 2 hours" {
		t.Errorf("ClarifiedDescription = %q", res.ClarifiedDescription)
	}
	if res.Error != "" {
		t.Errorf("Error should be empty on success, got %q", res.Error)
	}
}

func TestRunModelFailure(t *testing.T) {
	res := Run(context.Background(), fakeClarifier{err: errors.New("quota exceeded")}, "cnc stuff")
	if res.Success {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.ClarifiedDescription != "" {
		t.Errorf("ClarifiedDescription should be empty on failure, got %q", res.ClarifiedDescription)
	}
	if !strings.Contains(res.Error, "quota exceeded") {
		t.Errorf("Error = %q, want it to mention the cause", res.Error)
	}
}

func TestRunEmptyDescription(t *testing.T) {
	res := Run(context.Background(), fakeClarifier{out: "should not be called"}, "   ")
	if res.Success {
		t.Fatalf("expected failure for empty description, got %+v", res)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("laser time")
	if !strings.Contains(prompt, "laser time") {
		t.Errorf("prompt does not contain the description: %q", prompt)
	}
	if !strings.Contains(prompt, "standardized") {
		t.Errorf("prompt lost its instruction: %q", prompt)
	}
}
