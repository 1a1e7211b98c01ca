// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package visit

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Form is the value of every form field at the moment of submission.
// Values are taken as-is: nothing is trimmed, parsed or validated.
type Form struct {
	VisitDate        string `json:"visitDate" yaml:"visitDate"`
	DepartureTime    string `json:"departureTime" yaml:"departureTime"`
	Vehicle          string `json:"vehicle" yaml:"vehicle"`
	Reporter         string `json:"reporter" yaml:"reporter"`
	IDCode           string `json:"idCode" yaml:"idCode"`
	NationalID       string `json:"nationalId" yaml:"nationalId"`
	VisitDescription string `json:"visitDescription" yaml:"visitDescription"`
}

// DefaultForm returns the pre-filled values the page shows on load.
func DefaultForm() Form {
	return Form{
		Vehicle:    "سازمانی",
		Reporter:   "علی فروردین",
		IDCode:     "11111111",
		NationalID: "094*******",
	}
}

// Record is one submitted visit. Images holds the data URIs of every
// capture taken before submission, in capture order.
type Record struct {
	Form   `yaml:",inline"`
	Images []string `json:"images" yaml:"images"`

	ID          string    `json:"-" yaml:"-"`
	SubmittedAt time.Time `json:"-" yaml:"-"`
}

// DumpJSON renders the record the way the page shows it: two-space
// indentation, no HTML escaping.
func (r Record) DumpJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DumpYAML renders the record as YAML.
func (r Record) DumpYAML() ([]byte, error) {
	return yaml.Marshal(r)
}
