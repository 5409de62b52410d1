package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
	"github.com/furrow/furrow/pkg/soil"
)

func TestSuccessionCmdFlags(t *testing.T) {
	cmd := newSuccessionCmd(&globalOpts{})
	f := cmd.Flags()

	outputFmt, _ := f.GetString("output")
	if outputFmt != "text" {
		t.Errorf("default output = %q, want text", outputFmt)
	}
	limit, _ := f.GetInt("limit")
	if limit != 0 {
		t.Errorf("default limit = %d, want 0", limit)
	}

	for _, flag := range []string{"bedmate", "zone", "as-of", "limit", "all", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestDiagnoseCmdFlags(t *testing.T) {
	f := newDiagnoseCmd(&globalOpts{}).Flags()
	for _, flag := range []string{"reading", "area", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestServeCmdFlags(t *testing.T) {
	f := newServeCmd(&globalOpts{}).Flags()
	for _, flag := range []string{"port", "db", "blobs", "api-key"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestParseReadings(t *testing.T) {
	readings, err := parseReadings([]string{"pH=5.2", "nitrogen = 20", "K=150"})
	if err != nil {
		t.Fatalf("parseReadings: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("got %d readings, want 3", len(readings))
	}
	want := []soil.Nutrient{soil.PH, soil.Nitrogen, soil.Potassium}
	for i, r := range readings {
		if r.Nutrient != want[i] {
			t.Errorf("reading %d nutrient = %s, want %s", i, r.Nutrient, want[i])
		}
		if r.Value == nil {
			t.Errorf("reading %d has no value", i)
		}
	}
	if *readings[1].Value != 20 {
		t.Errorf("nitrogen = %g, want 20", *readings[1].Value)
	}

	for _, bad := range []string{"ph", "boron=3", "n=lots"} {
		if _, err := parseReadings([]string{bad}); err == nil {
			t.Errorf("parseReadings(%q) succeeded, want error", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-04-15")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if got.Month() != time.April || got.Day() != 15 {
		t.Errorf("parseDate = %v, want April 15", got)
	}

	before := time.Now()
	got, err = parseDate("")
	if err != nil {
		t.Fatalf("parseDate empty: %v", err)
	}
	if got.Before(before) {
		t.Errorf("empty date = %v, want now", got)
	}

	if _, err := parseDate("15/04/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

// run executes the root command with an isolated config.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCompanionCommand(t *testing.T) {
	out, err := run(t, "companion", "basil", "tomato", "-o", "json")
	if err != nil {
		t.Fatalf("companion: %v", err)
	}
	var rep report.Companion
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if rep.Result.Total != 8 {
		t.Errorf("basil next to tomato = %d, want 8", rep.Result.Total)
	}

	if _, err := run(t, "companion", "triffid"); err == nil {
		t.Error("expected error for unknown crop")
	}
}

func TestDiagnoseCommand(t *testing.T) {
	out, err := run(t, "diagnose", "-r", "ph=5.2", "-r", "n=20", "--area", "50")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if !strings.Contains(out, "Amendments for 50 sq ft:") {
		t.Errorf("output missing amendment plan:\n%s", out)
	}

	if _, err := run(t, "diagnose"); err == nil {
		t.Error("expected error without readings")
	}
}

func TestSuccessionCommand(t *testing.T) {
	out, err := run(t, "succession", "tomato", "--bedmate", "onion", "--zone", "7", "--as-of", "2026-04-15", "--all")
	if err != nil {
		t.Fatalf("succession: %v", err)
	}
	if !strings.Contains(out, "Succession after Tomato") {
		t.Errorf("output missing header:\n%s", out)
	}
	if !strings.Contains(out, "as of April 2026") {
		t.Errorf("output missing date line:\n%s", out)
	}
}

func TestComposeCommand(t *testing.T) {
	out, err := run(t, "compose", "tomato", "--slots", "2", "-o", "json")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	var rep report.Composition
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if rep.Slots != 2 {
		t.Errorf("slots = %d, want 2", rep.Slots)
	}
	for _, p := range rep.Placements {
		if p.Crop.ID == "potato" {
			t.Error("potato placed next to tomato")
		}
	}
}

func TestCropsExportAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.json")
	if _, err := run(t, "crops", "export", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	cat, err := crop.LoadCatalog(path)
	if err != nil {
		t.Fatalf("loading exported catalog: %v", err)
	}
	if len(cat.Crops) != len(crop.Builtin().Crops) {
		t.Errorf("exported %d crops, want %d", len(cat.Crops), len(crop.Builtin().Crops))
	}

	if _, err := run(t, "crops", "validate", path); err != nil {
		t.Errorf("validate exported catalog: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("crops:\n  - id: x\n  - id: x\n    name: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "crops", "validate", bad); err == nil {
		t.Error("expected validation failure for duplicate ids")
	}
}
