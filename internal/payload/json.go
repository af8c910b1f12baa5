// Package payload builds outbound representations of a telemetry snapshot:
// flat JSON, per-device JSON and %NAME% substituted request template.
package payload

import (
	"github.com/temoto/wifinfo/frame"
	"github.com/temoto/wifinfo/internal/encode"
)

// Result of one serialization pass.
// Reinit is set when any field name failed validation,
// caller forwards it to frame reader.
type Result struct {
	Body    string
	Emitted int
	Invalid []string
	Reinit  bool
}

// pairs adds validated, encoded fields of snap to o.
func pairs(o *Object, fields frame.Snapshot, validate encode.Validator, r *Result) {
	validate = validate.OrDefault()
	fields.Each(func(_ int, f frame.Field) {
		if !validate(f.Name) {
			r.Invalid = append(r.Invalid, f.Name)
			r.Reinit = true
			return
		}
		o.Set(f.Name, encode.Encode(f.Name, f.Value))
		r.Emitted++
	})
}

// FlatJSON serializes snapshot into single level object {"NAME":"value",...}.
// Output is never empty, at least `{}`.
func FlatJSON(snap frame.Snapshot, validate encode.Validator) Result {
	r := Result{}
	o := NewObject()
	pairs(o, snap, validate, &r)
	r.Body = o.String()
	return r
}

// Jeedom identifies device by itself inside its own object.
const DeviceKey = "device"

// DeviceJSON serializes snapshot into
// {"device":{"<id>":{"device":"<id>","NAME":"value",...}}}.
// First snapshot field is the leading anchor and never emitted.
// ok=false when there is nothing to send: empty deviceID or no usable field after anchor.
func DeviceJSON(snap frame.Snapshot, deviceID string, validate encode.Validator) (Result, bool) {
	if deviceID == "" || len(snap) < 2 || snap[1:].Used() == 0 {
		return Result{}, false
	}
	r := Result{}
	inner := NewObject().Set(DeviceKey, deviceID)
	pairs(inner, snap[1:], validate, &r)
	root := NewObject().SetObject(DeviceKey, NewObject().SetObject(deviceID, inner))
	r.Body = root.String()
	return r, true
}
