package watcher

import (
	"testing"
	"time"
)

func TestAnalyzeChangesGraphFile(t *testing.T) {
	event := ChangeEvent{
		Type:      ChangeTypeGraphFile,
		Paths:     []string{"graphs/pipeline.json"},
		Timestamp: time.Now(),
	}

	a := AnalyzeChanges(event)
	if !a.NeedGraphReload {
		t.Error("graph document change should require a graph reload")
	}
	if a.NeedConfigReload {
		t.Error("graph document change should not require a config reload")
	}
	if len(a.ChangedFiles) != 1 || a.ChangedFiles[0] != "graphs/pipeline.json" {
		t.Errorf("changed files = %v", a.ChangedFiles)
	}
}

func TestAnalyzeChangesConfigFile(t *testing.T) {
	event := ChangeEvent{
		Type:      ChangeTypeConfigFile,
		Paths:     []string{"logicgraph.toml"},
		Timestamp: time.Now(),
	}

	a := AnalyzeChanges(event)
	if !a.NeedConfigReload {
		t.Error("config change should require a config reload")
	}
	if a.NeedGraphReload {
		t.Error("config change should not require a graph reload")
	}
}
