package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseMoving(t *testing.T) {
	got, err := parseMoving(" 1, 4 ,")
	if err != nil {
		t.Fatalf("parse moving: %v", err)
	}
	if got != [6]bool{true, false, false, true, false, false} {
		t.Fatalf("unexpected flags %v", got)
	}
	if _, err := parseMoving("7"); err == nil {
		t.Fatalf("expected error for line 7")
	}
	if _, err := parseMoving("x"); err == nil {
		t.Fatalf("expected error for non-number")
	}
}

func TestChartCommandJSON(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--dir", dir, "chart", "--upper", "乾", "--lower", "坤", "--moving", "1", "--time", "2024-02-10T09:30:00Z", "--json")
	if err != nil {
		t.Fatalf("chart command: %v\n%s", err, out)
	}
	var decoded struct {
		Chart struct {
			Primary struct {
				Name string `json:"name"`
			} `json:"primary"`
			Transformed *struct {
				Name string `json:"name"`
			} `json:"transformed"`
		} `json:"chart"`
		Pillars struct {
			Day string `json:"day"`
		} `json:"pillars"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if decoded.Chart.Primary.Name != "天地否" {
		t.Fatalf("expected 天地否, got %s", decoded.Chart.Primary.Name)
	}
	if decoded.Chart.Transformed == nil {
		t.Fatalf("expected transformed hexagram")
	}
	if decoded.Pillars.Day != "甲辰" {
		t.Fatalf("expected 甲辰 day, got %s", decoded.Pillars.Day)
	}
	journal, err := os.ReadFile(filepath.Join(dir, ".liuyao", "logs", "journal.log"))
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if !strings.Contains(string(journal), "CAST") || !strings.Contains(string(journal), "天地否") {
		t.Fatalf("expected cast entry, got %q", journal)
	}
}

func TestChartCommandRejectsUnknownTrigram(t *testing.T) {
	_, err := execute(t, "--dir", t.TempDir(), "chart", "--upper", "X", "--lower", "坤")
	if err == nil || !strings.Contains(err.Error(), `unknown trigram "X"`) {
		t.Fatalf("expected unknown trigram error, got %v", err)
	}
}

func TestChartCommandCastWithSeedIsStable(t *testing.T) {
	dir := t.TempDir()
	args := []string{"--dir", dir, "chart", "--cast", "--seed", "42", "--time", "2024-02-10T09:30:00Z", "--json"}
	first, err := execute(t, args...)
	if err != nil {
		t.Fatalf("first cast: %v", err)
	}
	second, err := execute(t, args...)
	if err != nil {
		t.Fatalf("second cast: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output for the same seed")
	}
}

func TestChartCommandAskOffline(t *testing.T) {
	out, err := execute(t, "--dir", t.TempDir(), "chart", "--upper", "乾", "--lower", "乾", "--time", "2024-02-10", "--ask", "--yong-shen", "官鬼")
	if err != nil {
		t.Fatalf("chart --ask: %v", err)
	}
	if !strings.Contains(out, "乾為天") || !strings.Contains(out, "離線分析") {
		t.Fatalf("expected chart and offline analysis, got:\n%s", out)
	}
}

func TestChartCommandAskWithScoresConsultsBoth(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--dir", dir, "chart", "--upper", "離", "--lower", "坎", "--time", "2024-02-10T09:30:00Z",
		"--ask", "--fire", "9", "--wood", "3", "--symptom", "失眠", "--json")
	if err != nil {
		t.Fatalf("chart --ask with scores: %v\n%s", err, out)
	}
	var decoded struct {
		Analysis *struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"analysis"`
		Reading *struct {
			Dominant string `json:"dominant"`
			Weak     string `json:"weak"`
		} `json:"reading"`
		Constitution *struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"constitution"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if decoded.Analysis == nil || decoded.Analysis.Kind != "hexagram" || !strings.Contains(decoded.Analysis.Text, "火水未濟") {
		t.Fatalf("expected hexagram analysis, got %+v", decoded.Analysis)
	}
	if decoded.Reading == nil || decoded.Reading.Dominant != "火" || decoded.Reading.Weak != "木" {
		t.Fatalf("expected 火 dominant reading, got %+v", decoded.Reading)
	}
	if decoded.Constitution == nil || decoded.Constitution.Kind != "constitution" || !strings.Contains(decoded.Constitution.Text, "心小腸型體質") {
		t.Fatalf("expected constitution analysis, got %+v", decoded.Constitution)
	}
	journal, err := os.ReadFile(filepath.Join(dir, ".liuyao", "logs", "journal.log"))
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if !strings.Contains(string(journal), "火水未濟 · 火") {
		t.Fatalf("expected combined advice entry, got %q", journal)
	}
}

func TestChartCommandAskWithoutScoresSkipsConstitution(t *testing.T) {
	out, err := execute(t, "--dir", t.TempDir(), "chart", "--upper", "乾", "--lower", "乾", "--time", "2024-02-10", "--ask", "--json")
	if err != nil {
		t.Fatalf("chart --ask: %v", err)
	}
	if strings.Contains(out, `"constitution"`) || strings.Contains(out, `"reading"`) {
		t.Fatalf("expected hexagram analysis only:\n%s", out)
	}
}

func TestChartCommandRejectsOutOfRangeScore(t *testing.T) {
	_, err := execute(t, "--dir", t.TempDir(), "chart", "--upper", "乾", "--lower", "乾", "--ask", "--water", "12")
	if err == nil || !strings.Contains(err.Error(), "outside 0..10") {
		t.Fatalf("expected score range error, got %v", err)
	}
}

func TestTCMCommand(t *testing.T) {
	out, err := execute(t, "--dir", t.TempDir(), "tcm", "--wood", "9", "--water", "2", "--json")
	if err != nil {
		t.Fatalf("tcm command: %v", err)
	}
	if !strings.Contains(out, `"dominant": "木"`) || !strings.Contains(out, "肝膽型體質") {
		t.Fatalf("unexpected tcm output:\n%s", out)
	}
	if _, err := execute(t, "--dir", t.TempDir(), "tcm", "--fire", "11"); err == nil {
		t.Fatalf("expected out of range score to fail")
	}
}

func TestInitCommandWritesConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--dir", dir, "init", "--backend", "openai")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "advisor: openai") || !strings.Contains(out, "$LIUYAO_API_KEY") {
		t.Fatalf("unexpected init output: %s", out)
	}
	raw, err := os.ReadFile(filepath.Join(dir, ".liuyao", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(raw), "backend: openai") {
		t.Fatalf("expected persisted backend, got:\n%s", raw)
	}
}
