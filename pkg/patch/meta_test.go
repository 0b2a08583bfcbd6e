package patch

import (
	"encoding/json"
	"testing"
)

func TestMetaAccessors(t *testing.T) {
	m := Meta{
		"f":     "1.5",
		"i":     "7",
		"bad":   "x",
		"yes":   "True",
		"no":    "False",
		"one":   "1",
		"space": " 3 ",
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"float", m.Float("f", 0), 1.5},
		{"float missing", m.Float("missing", 2), 2.0},
		{"float malformed", m.Float("bad", 4), 4.0},
		{"float trims", m.Float("space", 0), 3.0},
		{"int", m.Int("i", 0), 7},
		{"int from float string", m.Int("f", 9), 9},
		{"bool True", m.Bool("yes", false), true},
		{"bool False", m.Bool("no", true), false},
		{"bool 1", m.Bool("one", false), true},
		{"bool default", m.Bool("bad", true), true},
		{"string default", m.String("missing", "d"), "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestMetaSetters(t *testing.T) {
	m := Meta{}
	m.SetFloat("f", 0.1)
	m.SetInt("i", -3)
	m.SetBool("b", true)
	if m["f"] != "0.1" || m["i"] != "-3" || m["b"] != "True" {
		t.Errorf("Meta = %v", m)
	}
	c := m.Clone()
	c["f"] = "2"
	if m["f"] != "0.1" {
		t.Error("Clone() shares storage")
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		b, err := json.Marshal(Handle{Kind: k, ID: 4})
		if err != nil {
			t.Fatal(err)
		}
		var h Handle
		if err := json.Unmarshal(b, &h); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", b, err)
		}
		if h.Kind != k || h.ID != 4 {
			t.Errorf("round trip of %s = %v", b, h)
		}
	}
	if _, err := ParseKind("audio"); err == nil {
		t.Error("ParseKind(audio) succeeded")
	}
	if _, err := Kind(7).MarshalText(); err == nil {
		t.Error("MarshalText(7) succeeded")
	}
}

func TestSharedIndexLayout(t *testing.T) {
	if got := SharedIndex(0, 0); got != 0 {
		t.Errorf("SharedIndex(0, 0) = %d", got)
	}
	if got := SharedIndex(3, 4); got != 34 {
		t.Errorf("SharedIndex(3, 4) = %d, want 34", got)
	}
	if got := SharedIndex(VoiceCapacity-1, MaxInlets-1); got != SharedSize-1 {
		t.Errorf("last index = %d, want %d", got, SharedSize-1)
	}
}
