package transcoder

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/value"
)

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want value.Value
	}{
		{"null", `null`, value.Null{}},
		{"bool", ` true `, value.Bool(true)},
		{"number", `1000`, value.Num(1000)},
		{"negative exponent", `-1.5e-3`, value.Num(-0.0015)},
		{"string", `"aé\n"`, value.Str("aé\n")},
		{"empty array", `[]`, value.List()},
		{"empty object", `{}`, value.Obj()},
		{"key order kept", `{"z":1,"a":2,"m":3}`, value.Obj("z", value.Num(1), "a", value.Num(2), "m", value.Num(3))},
		{"duplicate keys kept", `{"a":1,"a":2}`, value.Object{{Key: "a", Value: value.Num(1)}, {Key: "a", Value: value.Num(2)}}},
		{"nested", `{"key":[1000,{"x":[null,false]}]}`, value.Obj(
			"key", value.List(value.Num(1000), value.Obj("x", value.List(value.Null{}, value.Bool(false)))),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON([]byte(tt.in))
			if err != nil {
				t.Fatalf("FromJSON: %v", err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind errors.Kind
	}{
		{"empty", ``, errors.KindInvalidInput},
		{"truncated", `[1,2`, errors.KindInvalidInput},
		{"bad token", `{"a":tru}`, errors.KindInvalidInput},
		{"trailing", `{} {}`, errors.KindInvalidInput},
		{"out of range", `[1e400]`, errors.KindConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.in))
			if got := errors.KindOf(err); got != tt.kind {
				t.Errorf("kind = %q, want %q (%v)", got, tt.kind, err)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want string
	}{
		{"nil", nil, `null`},
		{"null", value.Null{}, `null`},
		{"false", value.Bool(false), `false`},
		{"integer", value.Num(1000), `1000`},
		{"fraction", value.Num(0.25), `0.25`},
		{"html not escaped", value.Str("<a&b>"), `"<a&b>"`},
		{"escapes", value.Str("q\"\n"), `"q\"\n"`},
		{"order kept", value.Obj("z", value.Num(1), "a", value.List()), `{"z":1,"a":[]}`},
		{"nested", value.List(value.Obj(), value.List(value.Null{})), `[{},[null]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToJSON(tt.in)
			if err != nil {
				t.Fatalf("ToJSON: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToJSON_NonFinite(t *testing.T) {
	_, err := ToJSON(value.Obj("a", value.List(value.Num(math.Inf(1)))))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindConversion {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if len(e.Path) != 2 || e.Path[0] != "a" || e.Path[1] != "0" {
		t.Errorf("path = %v, want [a 0]", e.Path)
	}
}

func TestToJSONIndent(t *testing.T) {
	got, err := ToJSONIndent(value.Obj("a", value.List(value.Num(1))), "  ")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1\n  ]\n}"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	in := `{"b":[1,2.5,-3e+21],"a":{"nested":"value","t":true},"n":null,"s":"héllo"}`
	v, err := FromJSON([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("got %s, want %s", out, in)
	}
}
