// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package visit

import (
	"strings"
	"testing"

	"github.com/relabs-tech/minevisit/internal/coords"
	"github.com/relabs-tech/minevisit/internal/gps"

	"gopkg.in/yaml.v3"
)

func coordsFor(f gps.Fix) coords.Display {
	return coords.NewDisplay(f.Latitude, f.Longitude)
}

func TestDefaultForm(t *testing.T) {
	f := DefaultForm()

	if f.Vehicle != "سازمانی" || f.Reporter != "علی فروردین" || f.IDCode != "11111111" || f.NationalID != "094*******" {
		t.Errorf("Unexpected defaults %+v", f)
	}
	if f.VisitDate != "" || f.DepartureTime != "" || f.VisitDescription != "" {
		t.Errorf("Expected date, time and description to start empty, got %+v", f)
	}
}

func TestRecordDumpJSON(t *testing.T) {
	rec := newRecord(DefaultForm(), nil)

	got, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON failed: %v", err)
	}

	want := `{
  "visitDate": "",
  "departureTime": "",
  "vehicle": "سازمانی",
  "reporter": "علی فروردین",
  "idCode": "11111111",
  "nationalId": "094*******",
  "visitDescription": "",
  "images": []
}`
	if string(got) != want {
		t.Errorf("Expected:\n%s\nGot:\n%s", want, got)
	}
}

func TestRecordDumpJSONKeepsMarkup(t *testing.T) {
	rec := newRecord(Form{VisitDescription: "<b>shaft & pit</b>"}, nil)

	got, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON failed: %v", err)
	}
	if !strings.Contains(string(got), `"visitDescription": "<b>shaft & pit</b>"`) {
		t.Errorf("Expected unescaped markup, got %s", got)
	}
}

func TestRecordDumpYAML(t *testing.T) {
	form := DefaultForm()
	form.VisitDate = "2024-05-01"
	rec := Record{Form: form, Images: []string{"data:image/png;base64,AAAA"}}

	out, err := rec.DumpYAML()
	if err != nil {
		t.Fatalf("DumpYAML failed: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not YAML: %v", err)
	}
	if decoded["visitDate"] != "2024-05-01" {
		t.Errorf("Expected flattened visitDate, got %v", decoded["visitDate"])
	}
	if decoded["reporter"] != "علی فروردین" {
		t.Errorf("Expected reporter, got %v", decoded["reporter"])
	}
	images, ok := decoded["images"].([]any)
	if !ok || len(images) != 1 {
		t.Errorf("Expected one image, got %v", decoded["images"])
	}
	if _, leaked := decoded["ID"]; leaked {
		t.Error("Internal ID must not be part of the dump")
	}
}
