package wizard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muurk/tr064-debug/internal/tr064/tr064test"
)

func TestTerminalRenderer_Connected(t *testing.T) {
	catalog := tr064test.Catalog(
		tr064test.Service("DeviceInfo1", tr064test.Action("GetInfo", nil, []string{"NewModelName"})),
	)

	tests := []struct {
		name      string
		model     string
		wantModel bool
	}{
		{"with model", "FRITZ!Box 7590", true},
		{"without model", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := tr064test.NewSession("Home router", catalog)
			session.Model = tt.model

			var out bytes.Buffer
			NewTerminalRenderer(&out).SetWidth(80).Connected(session, "Home router")

			got := out.String()
			if !strings.Contains(got, "Connected to Home router") {
				t.Errorf("output misses title:\n%s", got)
			}
			if strings.Contains(got, "Model") != tt.wantModel {
				t.Errorf("Model detail shown = %v, want %v:\n%s", !tt.wantModel, tt.wantModel, got)
			}
			if tt.wantModel && !strings.Contains(got, tt.model) {
				t.Errorf("output misses model %q:\n%s", tt.model, got)
			}
		})
	}
}
