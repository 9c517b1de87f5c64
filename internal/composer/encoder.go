package composer

import "reflect"

// Tokens is the tokenizer output handed back to the same encoder.
type Tokens []string

// Conditioning is the encoder's embedding of a styled prompt.
type Conditioning []float32

// Encoder is the downstream text encoding capability. The composer only
// ever calls Tokenize on the final styled prompt and passes the result to
// Encode.
type Encoder interface {
	Tokenize(text string) (Tokens, error)
	Encode(tokens Tokens) (Conditioning, error)
}

// MissingEncoder reports whether enc is nil, including a nil pointer or other
// nil value stored in the interface.
func MissingEncoder(enc Encoder) bool {
	if enc == nil {
		return true
	}
	v := reflect.ValueOf(enc)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
