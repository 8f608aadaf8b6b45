package storage

import "encoding/json"

// Fixed keys for the three state blobs.
const (
	keyAPIKeys    = "api_keys"
	keyThresholds = "cpr_thresholds"
	keySnapshot   = "crimes"
)

// SaveAPIKeys persists the full API key list.
func (d *DB) SaveAPIKeys(keys []string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	return d.Put(keyAPIKeys, data)
}

// LoadAPIKeys returns the persisted key list, or ok=false when none was
// ever saved.
func (d *DB) LoadAPIKeys() ([]string, bool, error) {
	data, ok, err := d.Get(keyAPIKeys)
	if err != nil || !ok {
		return nil, false, err
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, false, err
	}
	return keys, true, nil
}

// SaveThresholds persists the per-difficulty minimum CPR table as an
// opaque blob; the registry owns the encoding.
func (d *DB) SaveThresholds(data []byte) error {
	return d.Put(keyThresholds, data)
}

func (d *DB) LoadThresholds() ([]byte, bool, error) {
	return d.Get(keyThresholds)
}

// SaveSnapshot persists the latest crime snapshot blob.
func (d *DB) SaveSnapshot(data []byte) error {
	return d.Put(keySnapshot, data)
}

func (d *DB) LoadSnapshot() ([]byte, bool, error) {
	return d.Get(keySnapshot)
}
