package instrumentation

// Operation label values for Google API metrics.
const (
	OperationList        = "list"
	OperationGet         = "get"
	OperationCreate      = "create"
	OperationBatchUpdate = "batch_update"
	OperationMove        = "move"
	OperationGenerate    = "generate"
)

var knownSources = map[string]bool{
	SourceTabs:   true,
	SourcePlain:  true,
	SourceFolder: true,
}

// SourceLabel bounds the extraction source label to known values.
//
// Example:
//
//	SourceLabel("tabs")    // "tabs"
//	SourceLabel("webhook") // "other"
//	SourceLabel("")        // "other"
func SourceLabel(source string) string {
	if knownSources[source] {
		return source
	}
	return "other"
}
