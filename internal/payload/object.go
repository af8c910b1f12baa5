package payload

import (
	"bytes"
	"encoding/json"
)

// Object is JSON object with insertion ordered keys.
// Values are strings or nested *Object.
type Object struct {
	keys   []string
	values []interface{}
}

func NewObject() *Object { return &Object{} }

func (o *Object) Set(key, value string) *Object {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
	return o
}

func (o *Object) SetObject(key string, value *Object) *Object {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
	return o
}

func (o *Object) Len() int { return len(o.keys) }

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	o.write(&buf)
	return buf.Bytes(), nil
}

func (o *Object) String() string {
	var buf bytes.Buffer
	o.write(&buf)
	return buf.String()
}

func (o *Object) write(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i != 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		switch v := o.values[i].(type) {
		case string:
			writeString(buf, v)
		case *Object:
			v.write(buf)
		}
	}
	buf.WriteByte('}')
}

// writeString quotes s as JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// string encoding never fails
	_ = enc.Encode(s)
	// Encode appends newline
	buf.Truncate(buf.Len() - 1)
}
