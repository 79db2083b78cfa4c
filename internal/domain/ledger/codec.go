package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is the version written by Encode.
const SchemaVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported ledger schema version")

type snapshot struct {
	Version  int                           `json:"version"`
	Students map[string][]MissedWordRecord `json:"students"`
}

// Encode serializes the whole ledger as one versioned blob.
func (l *Ledger) Encode() ([]byte, error) {
	return json.Marshal(l)
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	students := l.students
	if students == nil {
		students = map[string][]MissedWordRecord{}
	}
	return json.Marshal(snapshot{Version: SchemaVersion, Students: students})
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*l = *decoded
	return nil
}

// Decode reads a persisted ledger. Empty input yields an empty ledger. A blob
// without a numeric "version" field is the legacy unversioned layout, a bare
// name → records object, and is migrated as is.
func Decode(data []byte) (*Ledger, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}

	if raw, ok := probe["version"]; ok && isNumber(raw) {
		var snap snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode ledger v%s: %w", raw, err)
		}
		if snap.Version < 1 || snap.Version > SchemaVersion {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
		}
		return fromMap(snap.Students), nil
	}

	return migrateLegacy(data)
}

func migrateLegacy(data []byte) (*Ledger, error) {
	var students map[string][]MissedWordRecord
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("decode legacy ledger: %w", err)
	}
	return fromMap(students), nil
}

func isNumber(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'))
}
