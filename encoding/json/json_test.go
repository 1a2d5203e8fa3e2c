package json

import (
	"reflect"
	"testing"
)

type example struct {
	Field1 string `json:"field_1"`
	Field2 int    `json:"field_2"`
}

func TestMarshaller(t *testing.T) {
	m := Marshaller[example]()

	data, err := m.Marshal(example{Field1: "field1", Field2: 128})
	if err != nil {
		t.Fatal(err)
	}

	expData := `{"field_1":"field1","field_2":128}`
	if string(data) != expData {
		t.Fatalf("expected marshaled data to be %q; got %q", expData, string(data))
	}
}

func TestUnmarshaller(t *testing.T) {
	expValue := example{Field1: "field1", Field2: 128}

	m := Marshaller[example]()
	v, err := m.Unmarshal([]byte(`{"field_1":"field1","field_2":128,"extra":true}`))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(v, expValue) {
		t.Fatalf("expected unmarshaled object to be:\n%#+v\n\ngot:\n%#+v", expValue, v)
	}

	if _, err = m.Unmarshal([]byte(`{"field_1":`)); err == nil {
		t.Fatal("expected unmarshal of malformed data to fail")
	}
}

func TestPointerTypes(t *testing.T) {
	m := Marshaller[*example]()

	data, err := m.Marshal(&example{Field1: "ptr"})
	if err != nil {
		t.Fatal(err)
	}

	v, err := m.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || v.Field1 != "ptr" {
		t.Fatalf("expected to get back a populated *example; got %#+v", v)
	}
}

func TestStrictUnmarshaller(t *testing.T) {
	m := Strict[example]()

	specs := []struct {
		data   string
		expErr bool
	}{
		{data: `{"field_1":"field1","field_2":128}`},
		{data: `{"field_1":"field1","unknown":1}`, expErr: true},
		{data: `{"field_1":"field1"} {"field_1":"again"}`, expErr: true},
		{data: `{"field_1":"field1"} garbage`, expErr: true},
		{data: `not-json`, expErr: true},
	}

	for specIndex, spec := range specs {
		_, err := m.Unmarshal([]byte(spec.data))
		if spec.expErr && err == nil {
			t.Errorf("[spec %d] expected unmarshal to fail", specIndex)
		} else if !spec.expErr && err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		}
	}
}
