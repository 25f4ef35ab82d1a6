package domain

// BackupVersion is the format version written into every exported backup.
const BackupVersion = "1.0"

// Backup is the export/import document: the full record set, the vehicle
// configuration (nil when none is saved), and enough metadata to warn when
// a file is imported into a different account than the one that wrote it.
//
// Timestamp is Unix milliseconds at export time. UserID and UserEmail are
// present only when a session existed at export time.
type Backup struct {
	Records   []TripRecord   `json:"corridas"`
	Vehicle   *VehicleConfig `json:"veiculoConfig"`
	Timestamp int64          `json:"timestamp"`
	Version   string         `json:"versao"`
	UserID    string         `json:"usuarioId,omitempty"`
	UserEmail string         `json:"usuarioEmail,omitempty"`
}
