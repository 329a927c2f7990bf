package main

import (
	"reflect"
	"testing"

	"github.com/pkl-lang/pkl-core/internal/diag"
)

func TestParseKeyValues(t *testing.T) {
	got := parseKeyValues([]string{"a=1", "b=x=y", "c="})
	want := map[string]string{"a": "1", "b": "x=y", "c": ""}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseKeyValues = %v, want %v", got, want)
	}
}

func TestExitCodeForTaxonomy(t *testing.T) {
	cases := []struct {
		kind diag.Kind
		want int
	}{
		{diag.KindEval, exitEval},
		{diag.KindSecurityDenied, exitEval},
		{diag.KindInvalidEncoding, exitProtocol},
		{diag.KindTimeout, exitProtocol},
		{diag.KindCancelled, exitProtocol},
	}

	for _, c := range cases {
		err := diag.New(c.kind, "boom")
		if got := exitCodeFor(err); got != c.want {
			t.Errorf("exitCodeFor(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestExitCodeForDefaultsToConfigError(t *testing.T) {
	err := errPlain("not a diag error")
	if got := exitCodeFor(err); got != exitConfigError {
		t.Errorf("exitCodeFor(plain) = %d, want %d", got, exitConfigError)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
