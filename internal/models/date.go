package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of Linear's timeless dates (dueDate and
// friends carry no time-of-day component).
const DateLayout = "2006-01-02"

// Date is a timeless calendar date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(DateLayout))
}
