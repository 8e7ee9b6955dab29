package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// optionalID records whether a JSON field was present, so null can mean "clear".
type optionalID struct {
	Set bool
	ID  *uuid.UUID
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(data, []byte("null")) {
		o.ID = nil
		return nil
	}

	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}

	o.ID = &id

	return nil
}
