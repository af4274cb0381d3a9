package httpclient

import (
	"testing"

	"github.com/go-viper/mapstructure/v2"
)

func TestFlag_Resolve(t *testing.T) {
	tests := []struct {
		flag     Flag
		fallback bool
		want     bool
	}{
		{Inherit, true, true},
		{Inherit, false, false},
		{True, false, true},
		{False, true, false},
	}
	for _, tt := range tests {
		if got := tt.flag.Resolve(tt.fallback); got != tt.want {
			t.Errorf("%s.Resolve(%v) = %v, want %v", tt.flag, tt.fallback, got, tt.want)
		}
	}
}

func TestFlag_Or(t *testing.T) {
	if got := Inherit.Or(False); got != False {
		t.Errorf("Inherit.Or(False) = %s", got)
	}
	if got := True.Or(False); got != True {
		t.Errorf("True.Or(False) = %s", got)
	}
	if got := Inherit.Or(Inherit); got != Inherit {
		t.Errorf("Inherit.Or(Inherit) = %s", got)
	}
}

func TestFlag_FlagOfAndIsSet(t *testing.T) {
	if FlagOf(true) != True || FlagOf(false) != False {
		t.Error("FlagOf returned the wrong flag")
	}
	if Inherit.IsSet() || !True.IsSet() || !False.IsSet() {
		t.Error("IsSet returned the wrong result")
	}
	var zero Flag
	if zero != Inherit {
		t.Error("expected zero value to inherit")
	}
}

func TestFlag_Text(t *testing.T) {
	for _, in := range []string{"true", "TRUE", " true "} {
		var f Flag
		if err := f.UnmarshalText([]byte(in)); err != nil || f != True {
			t.Errorf("UnmarshalText(%q) = %s, %v", in, f, err)
		}
	}
	for _, in := range []string{"", "inherit"} {
		f := True
		if err := f.UnmarshalText([]byte(in)); err != nil || f != Inherit {
			t.Errorf("UnmarshalText(%q) = %s, %v", in, f, err)
		}
	}
	var f Flag
	if err := f.UnmarshalText([]byte("maybe")); err == nil {
		t.Error("expected error for maybe")
	}

	out, err := False.MarshalText()
	if err != nil || string(out) != "false" {
		t.Errorf("MarshalText() = %q, %v", out, err)
	}
}

func TestDecodeHook(t *testing.T) {
	type settings struct {
		A Flag `mapstructure:"a"`
		B Flag `mapstructure:"b"`
		C Flag `mapstructure:"c"`
		D Flag `mapstructure:"d"`
	}

	var s settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     &s,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = dec.Decode(map[string]interface{}{
		"a": true,
		"b": "false",
		"c": nil,
	})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.A != True || s.B != False || s.C != Inherit || s.D != Inherit {
		t.Errorf("unexpected flags %+v", s)
	}

	dec, err = mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     &s,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(map[string]interface{}{"a": "sometimes"}); err == nil {
		t.Error("expected error for an invalid flag string")
	}
	if err := dec.Decode(map[string]interface{}{"a": 3.5}); err == nil {
		t.Error("expected error for a float")
	}
}
