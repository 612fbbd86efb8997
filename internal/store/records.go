package store

// Run is one sweep run.
type Run struct {
	ID          string `json:"id" cbor:"id"`
	SweepName   string `json:"sweep_name" cbor:"sweep_name"`
	Source      string `json:"source" cbor:"source"` // "builtin" or the sweep file path
	Filter      string `json:"filter,omitempty" cbor:"filter,omitempty"`
	ToolVersion string `json:"tool_version" cbor:"tool_version"`
	Seq         int64  `json:"seq" cbor:"seq"`
	Total       int    `json:"total" cbor:"total"`
	Passed      int    `json:"passed" cbor:"passed"`
	Failed      int    `json:"failed" cbor:"failed"`
}

// CaseRecord is the stored outcome of one case in a run.
type CaseRecord struct {
	RunID             string   `json:"run_id" cbor:"run_id"`
	Seq               int64    `json:"seq" cbor:"seq"`
	Name              string   `json:"name" cbor:"name"`
	CaseID            string   `json:"case_id" cbor:"case_id"`
	Frequency         string   `json:"frequency" cbor:"frequency"`
	Delay             string   `json:"delay" cbor:"delay"`
	DelayEncoding     string   `json:"delay_encoding" cbor:"delay_encoding"`
	FrequencyHz       uint64   `json:"frequency_hz" cbor:"frequency_hz"`
	DelayNs           int64    `json:"delay_ns" cbor:"delay_ns"`
	TargetCycles      uint64   `json:"target_cycles" cbor:"target_cycles"`
	ObservedTicks     uint64   `json:"observed_ticks" cbor:"observed_ticks"`
	ErrorKind         string   `json:"error_kind,omitempty" cbor:"error_kind,omitempty"`
	SimulationSkipped bool     `json:"simulation_skipped,omitempty" cbor:"simulation_skipped,omitempty"`
	Pass              bool     `json:"pass" cbor:"pass"`
	Errors            []string `json:"errors,omitempty" cbor:"errors,omitempty"`
}
