package models

// Field is one name/value pair of a document.
type Field struct {
	Name  string
	Value Value
}

// Document is a schema-less record. Fields keep the order in which the store
// returned them.
type Document struct {
	Fields []Field
}

// NewDocument builds a document from alternating name/value pairs.
//
//	doc := models.NewDocument("id", models.Int(1), "amt", models.Float(10))
func NewDocument(pairs ...interface{}) Document {
	d := Document{Fields: make([]Field, 0, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		val, _ := pairs[i+1].(Value)
		d.Fields = append(d.Fields, Field{Name: name, Value: val})
	}
	return d
}

// Get returns the value of a field and whether the field is present.
// A present field may still hold Null.
func (d Document) Get(name string) (Value, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Lookup builds a name-indexed view for repeated access.
func (d Document) Lookup() map[string]Value {
	m := make(map[string]Value, len(d.Fields))
	for _, f := range d.Fields {
		if _, seen := m[f.Name]; !seen {
			m[f.Name] = f.Value
		}
	}
	return m
}

// Len returns the number of fields present.
func (d Document) Len() int { return len(d.Fields) }

// Collection is a named, ordered sequence of documents.
type Collection struct {
	Name      string
	Documents []Document
}
