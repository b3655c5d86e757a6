package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gamedb/internal/diag"
	"gamedb/internal/source"
)

func TestSarifBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("Game\tDoom\nYear\tbad\n")
	fileID := fs.AddVirtual("games.db", content)
	fs.SetBaseDir("/tmp")

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.RecBadInteger,
		source.Span{File: fileID, Start: 15, End: 18}, "bad integer"))
	bag.Add(diag.New(diag.SevWarning, diag.ScanUnknownTag,
		source.Span{File: fileID, Start: 0, End: 4}, "unknown tag"))

	var buf bytes.Buffer
	meta := SarifRunMeta{
		ToolName:       "gamedb",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"check", "games.db"},
	}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine   uint32 `json:"startLine"`
							StartColumn uint32 `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF output: %v\n%s", err, buf.String())
	}

	if log.Version != "2.1.0" {
		t.Errorf("Expected version 2.1.0, got %s", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "gamedb" || run.Tool.Driver.Version != "0.1.0" {
		t.Errorf("Unexpected driver meta: %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("Expected 2 distinct rules, got %d", len(run.Tool.Driver.Rules))
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("Expected unsuccessful invocation with errors present")
	}

	if len(run.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "REC2002" || first.Level != "error" {
		t.Errorf("Unexpected first result: %+v", first)
	}
	if first.Message.Text != "bad integer" {
		t.Errorf("Unexpected message: %s", first.Message.Text)
	}
	if len(first.Locations) != 1 {
		t.Fatalf("Expected 1 location, got %d", len(first.Locations))
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 2 || region.StartColumn != 6 {
		t.Errorf("Expected region 2:6, got %d:%d", region.StartLine, region.StartColumn)
	}
	if run.Results[1].Level != "warning" {
		t.Errorf("Expected warning level, got %s", run.Results[1].Level)
	}
}

func TestSarifEmptyBagKeepsResultsArray(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("games.db", []byte("Game\tDoom\n"))

	bag := diag.NewBag(2)

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "gamedb"}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	if !strings.Contains(buf.String(), "\"results\": []") {
		t.Errorf("Expected empty results array, got:\n%s", buf.String())
	}
}
