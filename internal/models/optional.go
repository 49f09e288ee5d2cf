package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// OptionalUUID distinguishes a JSON field that was absent from one that was
// explicitly null. A plain *uuid.UUID collapses those two meanings, which is
// exactly wrong for the week template pin: an omitted pin leaves the stored
// value alone, an explicit null clears it.
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON is only invoked when the key is present, so Set records
// presence and Value keeps the null/value distinction.
func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// MarshalJSON round-trips the value; an unset field marshals as null.
func (o OptionalUUID) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
