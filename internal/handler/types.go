package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

var jsonNull = []byte("null")

// jsonID is an integer id that also accepts a numeric string, e.g. 4 or "4".
type jsonID int64

func (id *jsonID) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.New("id must be an integer")
	}
	*id = jsonID(v)
	return nil
}

// nullableID tells an absent key, an explicit null and a value apart.
type nullableID struct {
	Set   bool
	Value *int64
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, jsonNull) {
		n.Value = nil
		return nil
	}
	var id jsonID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	v := int64(id)
	n.Value = &v
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// jsonTime accepts RFC 3339 and the common zone-less layouts, read as UTC.
type jsonTime time.Time

func (t *jsonTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("time must be a string")
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = jsonTime(parsed)
			return nil
		}
	}
	return errors.New("invalid time " + strconv.Quote(s))
}

// nullableTime tells an absent key, an explicit null and a value apart.
type nullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *nullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, jsonNull) {
		n.Value = nil
		return nil
	}
	var t jsonTime
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	v := time.Time(t)
	n.Value = &v
	return nil
}
