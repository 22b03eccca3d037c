// SPDX-License-Identifier: AGPL-3.0-or-later
package knownvalues

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	set := Default()
	if !set.Validate(Projects, "clang") {
		t.Fatalf("expected clang to be a valid project")
	}
	if set.Validate(Projects, "bogus-project") {
		t.Fatalf("bogus-project should not validate")
	}
	if !set.Validate(Targets, "AMDGPU") {
		t.Fatalf("expected AMDGPU to be a valid target")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	set := Default()
	first := set.All(Configs)
	if len(first) != 4 {
		t.Fatalf("expected 4 configs, got %d", len(first))
	}
	first[0] = "mutated"
	if set.All(Configs)[0] == "mutated" {
		t.Fatalf("All must return a copy")
	}
}

func TestUnknownCategoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown category")
		}
	}()
	Default().Validate("nonsense", "x")
}

func TestResolve(t *testing.T) {
	set := Default()
	cases := []struct {
		category, input, want string
		wantErr               bool
	}{
		{Configs, "Debug", "Debug", false},
		{Configs, "deb", "Debug", false},
		{Configs, "rel", "", true}, // Release vs RelWithDebInfo
		{Configs, "relw", "RelWithDebInfo", false},
		{Targets, "amdg", "AMDGPU", false},
		{Projects, "bogus", "", true},
	}
	for _, tc := range cases {
		got, err := set.Resolve(tc.category, tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Resolve(%s, %q): expected error, got %q", tc.category, tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Resolve(%s, %q): %v", tc.category, tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%s, %q) = %q, want %q", tc.category, tc.input, got, tc.want)
		}
	}
}

func TestResolveGroup(t *testing.T) {
	set := Default()
	if got, err := set.ResolveGroup("a"); err != nil || got != "check-all" {
		t.Fatalf("group a = %q, %v, want check-all", got, err)
	}
	if got, err := set.ResolveGroup("cl"); err != nil || got != "check-clang" {
		t.Fatalf("group cl = %q, %v, want check-clang", got, err)
	}
	// "ll" is ambiguous between llvm and lld.
	if _, err := set.ResolveGroup("ll"); err == nil {
		t.Fatalf("expected error for ambiguous group ll")
	} else {
		var amb *AmbiguousValueError
		if !errors.As(err, &amb) {
			t.Fatalf("ambiguous group error has wrong type: %v", err)
		}
		if len(amb.Matches) < 2 {
			t.Fatalf("ambiguity does not list its matches: %v", amb.Matches)
		}
	}
	// Unknown groups pass through for llvm-lit to judge.
	if got, err := set.ResolveGroup("check-mlir-python"); err != nil || got != "check-mlir-python" {
		t.Fatalf("unknown group rewritten to %q (%v)", got, err)
	}
}

func TestResolveAmbiguousErrorType(t *testing.T) {
	set := Default()
	_, err := set.Resolve(Configs, "rel")
	var amb *AmbiguousValueError
	if !errors.As(err, &amb) {
		t.Fatalf("ambiguous resolve returned %T, want *AmbiguousValueError", err)
	}
	if amb.Category != Configs || amb.Value != "rel" {
		t.Fatalf("error fields = %q/%q", amb.Category, amb.Value)
	}

	_, err = set.Resolve(Projects, "bogus")
	if errors.As(err, &amb) {
		t.Fatalf("unknown value misclassified as ambiguous: %v", err)
	}
}

func TestSuggest(t *testing.T) {
	set := Default()
	got := set.Suggest(Projects, "clagn", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", got)
	}
	if got[0] != "clang" {
		t.Fatalf("nearest suggestion for clagn = %q, want clang", got[0])
	}
	if len(set.Suggest(Projects, "bogus-project", 3)) == 0 {
		t.Fatalf("suggestions must never be empty for a non-empty category")
	}
	joined := strings.Join(set.Suggest(Targets, "x86", 1), ",")
	if joined != "X86" {
		t.Fatalf("suggestion for x86 = %q, want X86", joined)
	}
}
