// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testInner struct {
	Flag bool `json:"flag" yaml:"flag"`
}

type testConfig struct {
	Name   string            `json:"name" yaml:"name"`
	Value  int               `json:"value" yaml:"value"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Inner  *testInner        `json:"inner,omitempty" yaml:"inner,omitempty"`
}

type testLevel int

func (l testLevel) String() string {
	if l > 0 {
		return "On"
	}
	return "Off"
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "sisl", Value: 123}, {Name: "sds_metrics", Value: 456}}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 || result[0].Name != "sisl" || result[1].Value != 456 {
		t.Errorf("Unexpected data: %+v", result)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("JSON output should end with a newline")
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := testConfig{Name: "sisl", Value: 7, Labels: map[string]string{"b": "2", "a": "1"}}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testConfig
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if result.Name != "sisl" || result.Labels["a"] != "1" {
		t.Errorf("Unexpected data: %+v", result)
	}
	if strings.Index(buf.String(), "a: \"1\"") > strings.Index(buf.String(), "b: \"2\"") {
		t.Errorf("YAML map keys should be sorted:\n%s", buf.String())
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := testConfig{
		Name:   "sisl",
		Value:  3,
		Labels: map[string]string{"os": "Linux"},
		Inner:  &testInner{Flag: true},
	}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FIELD", "VALUE", "name", "sisl", "labels.os", "Linux", "inner.flag", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[2], "inner.flag") {
		t.Errorf("table rows should be sorted, first row = %q", lines[2])
	}
}

func TestWriter_SerializeTable_Stringer(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]testLevel{"coverage": 0, "sanitize": 1}
	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "sanitize  On") {
		t.Errorf("stringer values should be rendered with String():\n%s", buf.String())
	}
}

func TestWriter_SerializeTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]string{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if buf.String() != "<empty>\n" {
		t.Errorf("got %q, want <empty>", buf.String())
	}
}

func TestWriter_SerializeTable_Scalar(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), 42); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "value") || !strings.Contains(buf.String(), "42") {
		t.Errorf("scalar should use the default key:\n%s", buf.String())
	}
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("xml"), &buf)
	if writer.format != FormatJSON {
		t.Errorf("format = %q, want %q", writer.format, FormatJSON)
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	writer, err := NewFileWriterOrStdout(FormatYAML, path)
	if err != nil {
		t.Fatalf("NewFileWriterOrStdout failed: %v", err)
	}
	if err := writer.Serialize(context.Background(), testConfig{Name: "sisl"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), "name: sisl") {
		t.Errorf("unexpected file content:\n%s", content)
	}
}

func TestNewFileWriterOrStdout_Stdout(t *testing.T) {
	writer, err := NewFileWriterOrStdout(FormatJSON, "  ")
	if err != nil {
		t.Fatalf("NewFileWriterOrStdout failed: %v", err)
	}
	if writer.output != os.Stdout {
		t.Error("blank path should write to stdout")
	}
}

func TestNewFileWriterOrStdout_BadPath(t *testing.T) {
	_, err := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	data := map[string]string{"MEMORY_SANITIZER_ON": "OFF", "CONAN_BUILD_COVERAGE": "ON", "CMAKE_BUILD_TYPE": "Debug"}
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTable} {
		first, err := Marshal(format, data)
		if err != nil {
			t.Fatalf("Marshal(%s) failed: %v", format, err)
		}
		for i := 0; i < 5; i++ {
			next, err := Marshal(format, data)
			if err != nil {
				t.Fatalf("Marshal(%s) failed: %v", format, err)
			}
			if !bytes.Equal(first, next) {
				t.Fatalf("Marshal(%s) is not deterministic:\n%s\n---\n%s", format, first, next)
			}
		}
	}
}

func TestMarshal_Unsupported(t *testing.T) {
	if _, err := Marshal(Format("xml"), 1); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSupportedFormats(t *testing.T) {
	for _, f := range SupportedFormats() {
		if Format(f).IsUnknown() {
			t.Errorf("supported format %q reported as unknown", f)
		}
	}
}
