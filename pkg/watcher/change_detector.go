package watcher

// ChangeAnalysis describes what changed and what needs to happen in response
type ChangeAnalysis struct {
	NeedGraphReload  bool
	NeedConfigReload bool
	ChangedFiles     []string
}

// AnalyzeChanges determines what needs to be reloaded based on what changed
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
	}

	switch event.Type {
	case ChangeTypeGraphFile:
		// Graph document changed: structure or parameters may differ
		analysis.NeedGraphReload = true

	case ChangeTypeConfigFile:
		analysis.NeedConfigReload = true
	}

	return analysis
}
