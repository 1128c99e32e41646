package lint

// Chunk is a piece of a file handed to the parser. An empty Filename means the
// chunk is parsed under the name of the file it came from.
type Chunk struct {
	Text     string
	Filename string
}

// Processor lets rules run over files that need unwrapping or filtering
// before and after analysis.
type Processor interface {
	// Preprocess splits text into chunks. An empty result skips the file.
	Preprocess(text, filename string) []Chunk

	// Postprocess merges the per-chunk message batches, in chunk order, into
	// the messages reported for the file.
	Postprocess(batches [][]Message, filename string) []Message
}

// PluginMeta identifies a plugin.
type PluginMeta struct {
	Name    string
	Version string
}

// Plugin groups rules and processors under a short name used to build rule
// and processor ids ("<name>/<rule>").
type Plugin struct {
	Name       string
	Meta       PluginMeta
	Rules      map[string]Rule
	Processors map[string]Processor
}

// RuleID returns the fully qualified id of a rule in plugin.
func RuleID(plugin, rule string) string {
	return plugin + "/" + rule
}
