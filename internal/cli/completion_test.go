package cli

import (
	"strings"
	"testing"
)

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"frames", []string{"render", "s.toml", "--frames", ""}, []string{"final", "steps", "all"}},
		{"style", []string{"render", "s.toml", "--style", ""}, []string{"simple", "wireframe"}},
		{"format", []string{"render", "s.toml", "--format", ""}, []string{"svg", "png", "pdf", "json"}},
		{"algorithm", []string{"layout", "s.toml", "--algorithm", ""}, []string{"kamada_kawai_layout", "circular_layout"}},
		{"script", []string{"render", ""}, []string{"toml", "yaml", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI()
			if err := execute(c, append([]string{"__complete"}, tt.args...)...); err != nil {
				t.Fatalf("__complete: %v", err)
			}
			lines := strings.Split(out.String(), "\n")
			for _, w := range tt.want {
				found := false
				for _, l := range lines {
					if strings.HasPrefix(l, w) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("completions %q missing %q", out.String(), w)
				}
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			c, out := newTestCLI()
			if err := execute(c, "completion", shell); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), "dsanim") {
				t.Errorf("completion %s does not mention dsanim", shell)
			}
		})
	}
}
