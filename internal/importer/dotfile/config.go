// Package dotfile loads the optional per-project configuration file that
// supplies default importer search paths, so a project doesn't have to
// repeat `-I`/`-isystem` on every invocation. The compile command applies
// only SearchPaths and SystemPaths; Output, Amalgamation and EmitDot are
// decoded but not applied by any caller. Three
// equivalent formats are supported, tried in this order: `.drlc.cue`,
// `.drlc.toml`, `.drlc.yaml`.
package dotfile

// Config is the decoded project configuration. Every field is optional;
// the zero Config means "no overrides, use CLI defaults."
type Config struct {
	SearchPaths  []string `json:"searchPaths" toml:"search_paths" yaml:"searchPaths"`
	SystemPaths  []string `json:"systemPaths" toml:"system_paths" yaml:"systemPaths"`
	Output       string   `json:"output" toml:"output" yaml:"output"`
	Amalgamation bool     `json:"amalgamation" toml:"amalgamation" yaml:"amalgamation"`
	EmitDot      bool     `json:"emitDot" toml:"emit_dot" yaml:"emitDot"`
}
