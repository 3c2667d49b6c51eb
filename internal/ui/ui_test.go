package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSplitHint(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want []string
	}{
		{
			name: "headline with bullets",
			hint: "Cannot reach device at 10.0.0.1.\n\nTroubleshooting:\n  • Check the address\n  • Enable TR-064",
			want: []string{"Check the address", "Enable TR-064"},
		},
		{
			name: "plain lines",
			hint: "Check credentials\nRetry later",
			want: []string{"Check credentials", "Retry later"},
		},
		{
			name: "empty",
			hint: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitHint(tt.hint)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitHint() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitHint()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPayloadLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "   ", 0},
		{"single line xml", "<a><b>1</b></a>", 4},
		{"multi line text", "one\r\ntwo\nthree", 3},
		{"single line text", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPayload("Raw", tt.content).Lines(); len(got) != tt.want {
				t.Errorf("Lines() = %q, want %d lines", got, tt.want)
			}
		})
	}
}

func TestPayloadRenderTruncates(t *testing.T) {
	p := NewPayload("Raw response", "1\n2\n3\n4\n5").SetWidth(80).SetMaxLines(2)
	out := p.Render()
	if !strings.Contains(out, "3 more lines") {
		t.Errorf("Render() missing truncation note:\n%s", out)
	}
	if !strings.Contains(out, "Raw response") {
		t.Errorf("Render() missing title:\n%s", out)
	}
}

func TestResultRender(t *testing.T) {
	t.Run("success keeps detail order", func(t *testing.T) {
		out := NewSuccessResult("DeviceInfo1 / GetInfo",
			Detail{Key: "NewModelName", Value: "FRITZ!Box"},
			Detail{Key: "NewSerialNumber", Value: "ABC"},
		).SetWidth(80).Render()

		first := strings.Index(out, "NewModelName")
		second := strings.Index(out, "NewSerialNumber")
		if first < 0 || second < 0 || first > second {
			t.Errorf("details out of order:\n%s", out)
		}
		if !strings.Contains(out, "SUCCESS") {
			t.Errorf("missing SUCCESS label:\n%s", out)
		}
	})

	t.Run("failure shows error and tips", func(t *testing.T) {
		out := NewFailureResult("Connect", errors.New("boom"), []string{"check cable"}).SetWidth(80).Render()
		for _, want := range []string{"FAILED", "boom", "check cable", "Troubleshooting"} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q:\n%s", want, out)
			}
		}
	})
}

func TestProgressUpdateStep(t *testing.T) {
	p := NewProgress("a", "b", "c").SetWidth(80)

	p.UpdateStep(1, StepComplete, "")
	p.UpdateStep(2, StepSkipped, "ssl off")
	p.UpdateStep(9, StepComplete, "") // ignored

	if p.Percent < 0.66 || p.Percent > 0.67 {
		t.Errorf("Percent = %f, want 2/3", p.Percent)
	}
	if p.Steps[1].Message != "ssl off" {
		t.Errorf("step 2 message = %q", p.Steps[1].Message)
	}

	p.UpdateStep(3, StepRunning, "")
	if p.Current != 3 {
		t.Errorf("Current = %d, want 3", p.Current)
	}
	out := p.Render()
	for _, want := range []string{"[1/3] a", "(ssl off)", "[2/3]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() misses %q:\n%s", want, out)
		}
	}
}

func TestStepRunner(t *testing.T) {
	var buf bytes.Buffer
	r := NewStepRunner(StepRunnerConfig{
		Title:     "Connect",
		Command:   "tr064-debug start",
		Params:    []Param{{Key: "Host", Value: "10.0.0.1:49000"}},
		StepNames: []string{"first", "second"},
		Output:    &buf,
		Width:     80,
	})
	r.Start()
	cb := r.Callback()
	cb(1, "", StepComplete, "")
	cb(2, "", StepFailed, "refused")
	cb(3, "", StepComplete, "") // out of range
	r.Fail("Connect", errors.New("refused"), nil)

	out := buf.String()
	for _, want := range []string{"10.0.0.1:49000", "[1/2]", "[2/2]", "refused", "FAILED"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "Remove", []string{"gone"}, "Continue?")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)
	p.PrintHeader("TR-064 SESSION", "tr064-debug start", Param{Key: "Store", Value: "/tmp/credentials.yaml"})
	p.PrintPayload("Raw response", "<x/>", 0)

	out := buf.String()
	if !strings.Contains(out, "/tmp/credentials.yaml") || !strings.Contains(out, "<x/>") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
