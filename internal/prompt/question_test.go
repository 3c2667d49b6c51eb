package prompt

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		raw     string
		want    string
		wantErr bool
	}{
		{"input default", Question{Kind: KindInput, Default: "49000"}, "  ", "49000", false},
		{"input trimmed", Question{Kind: KindInput}, " admin ", "admin", false},
		{"password keeps spaces", Question{Kind: KindPassword}, " s3cret ", " s3cret ", false},
		{"confirm yes", Confirm("ssl", "Use SSL?", false), "Y", "true", false},
		{"confirm default", Confirm("ssl", "Use SSL?", true), "", "true", false},
		{"confirm garbage", Confirm("ssl", "Use SSL?", true), "maybe", "", true},
		{"select by name", Select("s", "Pick", []string{"A", "B"}), "B", "B", false},
		{"select by number", Select("s", "Pick", []string{"A", "B"}), "2", "B", false},
		{"select out of range", Select("s", "Pick", []string{"A", "B"}), "3", "", true},
		{"select empty choices", Select("s", "Pick", nil), "A", "", true},
		{"validate ipv4", Question{Kind: KindInput, Validate: IPv4}, "192.168.178.1", "192.168.178.1", false},
		{"validate ipv4 rejects", Question{Kind: KindInput, Validate: IPv4}, "fritz.box", "", true},
		{"filter", Question{Kind: KindInput, Filter: strings.ToUpper}, "x", "X", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.q, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) error
		input string
		ok    bool
	}{
		{"port", Port, "49000", true},
		{"port zero", Port, "0", false},
		{"port text", Port, "http", false},
		{"timeout", NonNegative, "0", true},
		{"timeout negative", NonNegative, "-5", false},
		{"required", Required, "x", true},
		{"required blank", Required, "   ", false},
		{"ipv4", IPv4, "10.0.0.1", true},
		{"ipv4 too short", IPv4, "10.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(tt.input); (err == nil) != tt.ok {
				t.Errorf("validator(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestAnswers(t *testing.T) {
	a := Answers{"port": "49000", "ssl": "true", "name": "x"}

	if n, err := a.Int("port"); err != nil || n != 49000 {
		t.Errorf("Int(port) = %d, %v", n, err)
	}
	if _, err := a.Int("name"); err == nil {
		t.Error("Int(name) should fail")
	}
	if _, err := a.Int("missing"); err == nil {
		t.Error("Int(missing) should fail")
	}
	if !a.Bool("ssl") || a.Bool("name") {
		t.Error("Bool() mismatch")
	}
}
