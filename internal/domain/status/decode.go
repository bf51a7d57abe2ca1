package status

import (
	"strconv"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// Stored vectors come from several writers, so axis values that are not
// strings are read as their text and left for Normalize to judge. Field
// decoders rather than Vector.UnmarshalJSON, because Vector is embedded in
// Slot and Model and its method would take over their decoding.
func init() {
	for _, field := range []string{"Status1", "Status2", "Status3", "Status4"} {
		jsoniter.RegisterFieldDecoderFunc("status.Vector", field, decodeAxis)
	}
}

func decodeAxis(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	value := ""
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		value = iter.ReadString()
	case jsoniter.NumberValue:
		value = iter.ReadNumber().String()
	case jsoniter.BoolValue:
		value = strconv.FormatBool(iter.ReadBool())
	case jsoniter.NilValue:
		iter.ReadNil()
	default:
		iter.Skip()
	}
	*(*string)(ptr) = value
}
