package model

// ChangeOp identifies the kind of mutation that produced a change event.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "insert"
	ChangeUpdate ChangeOp = "update"
	ChangeDelete ChangeOp = "delete"
)

// Change is a notification that a table's rows changed. Consumers treat it
// as a hint to re-fetch; it carries no row data, so duplicate or reordered
// delivery is harmless.
type Change struct {
	Table    string   `json:"table"`
	Op       ChangeOp `json:"op"`
	RecordID string   `json:"record_id"`
	UserID   string   `json:"user_id,omitempty"`
}
