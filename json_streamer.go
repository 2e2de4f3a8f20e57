package vessel

import "encoding/json"

// JSONStreamer chains steps that produce a value to encode, stopping at the
// first error.
type JSONStreamer struct {
	Error error
	Value any
}

func (stream *JSONStreamer) Collect() ([]byte, error) {
	if stream.Error != nil {
		return []byte{}, stream.Error
	}

	return json.Marshal(stream.Value)
}

func (stream *JSONStreamer) OnError(callback func(error) error) *JSONStreamer {
	if stream.Error != nil {
		stream.Error = callback(stream.Error)
	}
	return stream
}

// Then replaces Value with the result of callback.
func (stream *JSONStreamer) Then(callback func(any) (any, error)) *JSONStreamer {
	if stream.Error == nil {
		stream.Value, stream.Error = callback(stream.Value)
	}
	return stream
}
