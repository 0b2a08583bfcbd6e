package dot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/patch/units"
)

func newPatch(t *testing.T) *patch.Registry {
	t.Helper()
	rt := patch.NewRuntime(units.NewFactory())
	rt.Programs = patch.ProgramMap{
		"osc/sine": {Name: "osc/sine", Inputs: []string{"am"}, Inlets: []string{"freq"}, Outlet: true},
	}
	reg := patch.NewRegistry(rt)

	num, err := reg.Spawn(patch.Control, units.KeyNumber, patch.Vec3{X: 1}, patch.WithMeta(patch.Meta{"number": "440"}))
	if err != nil {
		t.Fatal(err)
	}
	a, err := reg.Spawn(patch.Voice, "osc/sine", patch.Vec3{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	b, err := reg.Spawn(patch.Voice, "osc/sine", patch.Vec3{X: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Connect(num, a, 0); err != nil {
		t.Fatal(err)
	}
	if err := reg.ConnectSignal(a, b, 0); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestToDOT(t *testing.T) {
	reg := newPatch(t)

	tests := []struct {
		name     string
		opts     Options
		contains []string
		absent   []string
	}{
		{
			name: "simple",
			contains: []string{
				"digraph patch {",
				"subgraph cluster_control {",
				"subgraph cluster_voice {",
				`"control:0" [label="Number #0"`,
				`"voice:1" [label="osc/sine #1"`,
				`"control:0" -> "voice:0" [label="freq"]`,
				`"voice:0" -> "voice:1" [label="am", style="bold,dashed", color=firebrick]`,
			},
			absent: []string{"cluster_graphics", "number: 440"},
		},
		{
			name:     "detailed",
			opts:     Options{Detailed: true},
			contains: []string{`number: 440`, `at: 1, 0, 0`, `program: osc/sine`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDOT(reg, tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q in:\n%s", want, got)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(got, bad) {
					t.Errorf("unexpected %q in:\n%s", bad, got)
				}
			}
		})
	}
}

func TestToDOTEmpty(t *testing.T) {
	reg := patch.NewRegistry(patch.NewRuntime(units.NewFactory()))
	got := ToDOT(reg, Options{})
	if strings.Contains(got, "subgraph") || strings.Contains(got, "->") {
		t.Errorf("empty patch produced nodes:\n%s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(newPatch(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("svg root not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}
