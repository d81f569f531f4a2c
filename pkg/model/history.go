package model

import (
	"strconv"
	"time"
)

type HistoryID string

// NewHistoryID generates a HistoryID from the creation instant
func NewHistoryID(t time.Time) HistoryID {
	return HistoryID(strconv.FormatInt(t.UnixMilli(), 10))
}

// HistoryRecord is one completed identification kept in the local history
type HistoryRecord struct {
	ID       HistoryID         `json:"id"`
	ImageURI string            `json:"imageUri"`
	Result   RecognitionResult `json:"result"`
	// Timestamp is milliseconds since epoch
	Timestamp   int64  `json:"timestamp"`
	SeafoodName string `json:"seafoodName,omitempty"`
}

// NewHistoryRecord builds a record for a successful identification made at t
func NewHistoryRecord(t time.Time, imageURI string, result *RecognitionResult) *HistoryRecord {
	record := &HistoryRecord{
		ID:        NewHistoryID(t),
		ImageURI:  imageURI,
		Timestamp: t.UnixMilli(),
	}
	if result != nil {
		record.Result = *result.Clone()
	}
	record.SeafoodName = record.Result.PrimaryName()
	return record
}

// CreatedAt returns Timestamp as time.Time
func (x *HistoryRecord) CreatedAt() time.Time {
	return time.UnixMilli(x.Timestamp)
}

// Clone returns a deep copy of the record
func (x *HistoryRecord) Clone() *HistoryRecord {
	if x == nil {
		return nil
	}
	c := *x
	c.Result = *x.Result.Clone()
	return &c
}

// WithoutInlineImages returns a copy whose image fields hold no data URI payload
func (x *HistoryRecord) WithoutInlineImages() *HistoryRecord {
	c := *x
	c.Result = *x.Result.WithoutInlineImages()
	return &c
}

// Minimal returns a copy that keeps only identifying fields of the result
func (x *HistoryRecord) Minimal() *HistoryRecord {
	c := *x
	c.Result = *x.Result.Minimal()
	return &c
}
