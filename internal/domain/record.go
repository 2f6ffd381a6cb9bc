package domain

import "strings"

// Field is the name of a canonical catalog column
type Field string

// Canonical fields
const (
	FieldID              Field = "id"
	FieldBrandName       Field = "brand_name"
	FieldProductName     Field = "product_name"
	FieldCategory        Field = "category"
	FieldSubcategory     Field = "subcategory"
	FieldPrice           Field = "price"
	FieldImageURL        Field = "image_url"
	FieldSourceID        Field = "source_id"
	FieldSource          Field = "source"
	FieldDescriptors     Field = "descriptors"
	FieldGlutenFreeScore Field = "gluten_free_score"
)

// legacyFieldNames maps older field spellings onto canonical fields.
// Sheets exported by the LCBO scripts call the source id "lcbo_id".
var legacyFieldNames = map[string]Field{
	"lcbo_id": FieldSourceID,
}

// CanonicalFields lists every canonical field in display order
var CanonicalFields = []Field{
	FieldID,
	FieldBrandName,
	FieldProductName,
	FieldCategory,
	FieldSubcategory,
	FieldPrice,
	FieldImageURL,
	FieldSourceID,
	FieldSource,
	FieldDescriptors,
	FieldGlutenFreeScore,
}

// ParseField resolves a field name, accepting legacy spellings.
// Returns false for names that are not canonical fields.
func ParseField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if f, ok := legacyFieldNames[name]; ok {
		return f, true
	}
	for _, f := range CanonicalFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Record is one product entry keyed by canonical field.
// An empty value and a missing field are the same state: Set with an empty
// string removes the field, and Get on a missing field returns "".
type Record struct {
	fields map[Field]string

	// Raw is the source row the record was built from. Columns not covered
	// by the Field Index are written back from here unchanged.
	Raw []string

	// Row is the 1-based data row in the source sheet (0 when synthesized)
	Row int
}

// NewRecord creates a record from a field map. Empty values are dropped.
func NewRecord(values map[Field]string) Record {
	r := Record{fields: make(map[Field]string, len(values))}
	for f, v := range values {
		r.Set(f, v)
	}
	return r
}

// Get returns the value of a field, or "" when absent
func (r Record) Get(f Field) string {
	if r.fields == nil {
		return ""
	}
	return r.fields[f]
}

// Set assigns a field value. An empty value clears the field.
func (r *Record) Set(f Field, value string) {
	if value == "" {
		if r.fields != nil {
			delete(r.fields, f)
		}
		return
	}
	if r.fields == nil {
		r.fields = make(map[Field]string)
	}
	r.fields[f] = value
}

// Has reports whether the field holds a non-blank value
func (r Record) Has(f Field) bool {
	return strings.TrimSpace(r.Get(f)) != ""
}

// Fields returns a copy of the populated fields
func (r Record) Fields() map[Field]string {
	out := make(map[Field]string, len(r.fields))
	for f, v := range r.fields {
		out[f] = v
	}
	return out
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	c := Record{Row: r.Row, fields: r.Fields()}
	if r.Raw != nil {
		c.Raw = append([]string(nil), r.Raw...)
	}
	return c
}

// FieldIndex maps canonical fields to zero-based column positions for one dataset
type FieldIndex map[Field]int

// Column returns the column for a field and whether the field is mapped
func (idx FieldIndex) Column(f Field) (int, bool) {
	col, ok := idx[f]
	return col, ok
}

// Value reads a field from a row, returning "" when the field is unmapped
// or the row is too short
func (idx FieldIndex) Value(row []string, f Field) string {
	col, ok := idx[f]
	if !ok || col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Cluster is a non-empty ordered group of records judged to be the same product.
// Members holds positions into the record slice the cluster was built from.
type Cluster struct {
	Members []int    `json:"members"`
	Records []Record `json:"-"`
}

// Size returns the number of records in the cluster
func (c Cluster) Size() int {
	return len(c.Records)
}
