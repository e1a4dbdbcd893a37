package effects

import (
	"encoding/json"
	"testing"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		want string
	}{
		{`2`, KindNumber, "2"},
		{`1.25`, KindNumber, "1.25"},
		{`true`, KindBool, "true"},
		{`{"items":["film"]}`, KindRaw, `{"items":["film"]}`},
		{`"ion_chamber"`, KindRaw, `"ion_chamber"`},
		{`null`, KindNone, "<none>"},
	}
	for _, tt := range tests {
		var v Value
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if v.Kind() != tt.kind {
			t.Errorf("Unmarshal(%s): got kind %v, want %v", tt.in, v.Kind(), tt.kind)
		}
		if v.String() != tt.want {
			t.Errorf("Unmarshal(%s): got %s, want %s", tt.in, v.String(), tt.want)
		}
	}
}

func TestEffect_JSON(t *testing.T) {
	in := `{"type":"insight_gain_multiplier","value":1.25,"condition":"question_category == 'quantum'"}`
	var e Effect
	if err := json.Unmarshal([]byte(in), &e); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("got %s, want %s", out, in)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{Additive, Multiplicative, Clamped, Latch, Opaque} {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q): got %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("weird"); err == nil {
		t.Error("expected error for unknown category")
	}
}
