package models

// Match is a single command hit returned by exact and fuzzy searches.
type Match struct {
	Command    string `json:"command"`
	ModuleCode string `json:"module"`
	ModulePath string `json:"path"`
	Distance   int    `json:"distance"` // 0 for exact matches
}

// ModuleInfo describes one module and everything it provides.
type ModuleInfo struct {
	ModuleCode string   `json:"module"`
	ModulePath string   `json:"path"`
	Dialect    Dialect  `json:"type"`
	Commands   []string `json:"commands"`
}
