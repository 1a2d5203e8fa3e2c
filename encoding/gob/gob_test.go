package gob

import (
	"reflect"
	"testing"
)

func TestMarshaller(t *testing.T) {
	type Example struct {
		Field1 string
		Field2 int
	}

	example := Example{
		Field1: "field1",
		Field2: 128,
	}

	m := Marshaller[Example]()
	data, err := m.Marshal(example)
	if err != nil {
		t.Fatal(err)
	}

	target, err := m.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(example, target) {
		t.Fatalf("expected unmarshaled object to be:\n%#+v\n\ngot:\n%#+v", example, target)
	}
}

func TestUnmarshalMalformedData(t *testing.T) {
	m := Marshaller[map[string]int]()
	if _, err := m.Unmarshal([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Fatal("expected unmarshal of malformed data to fail")
	}
}
