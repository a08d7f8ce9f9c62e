// Copyright 2018-present Kuei-chun Chen. All rights reserved.
// payload.go

package decoder

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// MIME types of an operations payload
const (
	MIMEJSON = "application/json"
	MIMEBSON = "application/bson"
)

var (
	// ErrEmpty is returned for a null or empty payload
	ErrEmpty = errors.New("empty payload")
	// ErrMalformed is returned for a payload that cannot be used
	ErrMalformed = errors.New("malformed payload")
)

// Series is one entry of an operations payload; each data point is
// [epochSeconds, value]
type Series struct {
	Label string      `json:"label" bson:"label"`
	Data  [][]float64 `json:"data" bson:"data"`
}

// Payload -
type Payload []Series

// payloadDoc wraps a payload since a BSON document cannot be an array
type payloadDoc struct {
	Series Payload `bson:"series"`
}

// Decode reads a JSON payload
func Decode(r io.Reader) (Payload, error) {
	var payload Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return payload, payload.Validate()
}

// DecodeBSON reads a BSON payload document
func DecodeBSON(buffer []byte) (Payload, error) {
	if len(buffer) == 0 {
		return nil, ErrEmpty
	}
	var doc payloadDoc
	if err := bson.Unmarshal(buffer, &doc); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return doc.Series, doc.Series.Validate()
}

// DecodeContent decodes a payload by its MIME type, JSON by default
func DecodeContent(contentType string, r io.Reader) (Payload, error) {
	if !strings.HasPrefix(contentType, MIMEBSON) {
		return Decode(r)
	}
	buffer, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return DecodeBSON(buffer)
}

// Validate checks the shape of every data point
func (p Payload) Validate() error {
	if len(p) == 0 {
		return ErrEmpty
	}
	for i, s := range p {
		for j, point := range s.Data {
			if len(point) != 2 {
				return errors.Wrapf(ErrMalformed, "series %d point %d has %d values", i, j, len(point))
			}
			for _, v := range point {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return errors.Wrapf(ErrMalformed, "series %d point %d is not a number", i, j)
				}
			}
		}
	}
	return nil
}

// EncodeJSON -
func (p Payload) EncodeJSON(w io.Writer) error {
	if p == nil {
		p = Payload{}
	}
	return json.NewEncoder(w).Encode(p)
}

// EncodeBSON -
func (p Payload) EncodeBSON(w io.Writer) error {
	b, err := bson.Marshal(payloadDoc{Series: p})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(b))
	return err
}
