package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Post struct {
	ID        PostID    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// PostInput is the only body ever sent to the posts API. The server owns
// id and timestamps.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type DeleteResult struct {
	Message string `json:"message"`
}

// PostID is opaque. The API may send it as a JSON number or a string.
type PostID string

func (id *PostID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = PostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decoding post id %s: %w", b, err)
	}
	*id = PostID(n.String())
	return nil
}

func (id PostID) String() string {
	return string(id)
}

// Timestamp accepts RFC 3339 as well as zone-less local date-times such as
// "2023-05-15T10:30:00". A value in any other shape is kept in Raw with a
// zero Time, since timestamps are only ever displayed.
type Timestamp struct {
	time.Time
	Raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	*ts = Timestamp{}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		ts.Raw = string(bytes.TrimSpace(b))
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := parseTimestamp(s)
	if err != nil {
		ts.Raw = s
		return nil
	}
	ts.Time = t
	return nil
}
