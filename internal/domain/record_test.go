package domain

import "testing"

func TestParseField(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Field
		wantOK bool
	}{
		{"canonical", "brand_name", FieldBrandName, true},
		{"case and spaces", "  Product_Name ", FieldProductName, true},
		{"legacy lcbo id", "lcbo_id", FieldSourceID, true},
		{"unknown", "colour", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseField(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseField(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRecord_EmptyMeansAbsent(t *testing.T) {
	r := NewRecord(map[Field]string{
		FieldBrandName:   "Absolut",
		FieldProductName: "",
	})

	if r.Has(FieldProductName) {
		t.Error("empty product_name should be absent")
	}
	if _, ok := r.Fields()[FieldProductName]; ok {
		t.Error("NewRecord kept an empty value")
	}

	r.Set(FieldBrandName, "")
	if r.Get(FieldBrandName) != "" || len(r.Fields()) != 0 {
		t.Errorf("Set with empty value should clear the field, got %v", r.Fields())
	}

	r.Set(FieldPrice, "   ")
	if r.Has(FieldPrice) {
		t.Error("whitespace-only value should not count as present")
	}
}

func TestRecord_ZeroValue(t *testing.T) {
	var r Record
	if r.Get(FieldBrandName) != "" {
		t.Error("zero record should read as empty")
	}
	r.Set(FieldBrandName, "Smirnoff")
	if r.Get(FieldBrandName) != "Smirnoff" {
		t.Errorf("Get = %q, want Smirnoff", r.Get(FieldBrandName))
	}
}

func TestRecord_CloneIsDeep(t *testing.T) {
	r := NewRecord(map[Field]string{FieldBrandName: "Absolut"})
	r.Raw = []string{"Absolut", "Citron"}
	r.Row = 4

	c := r.Clone()
	c.Set(FieldBrandName, "Smirnoff")
	c.Raw[0] = "Smirnoff"

	if r.Get(FieldBrandName) != "Absolut" {
		t.Errorf("original brand changed to %q", r.Get(FieldBrandName))
	}
	if r.Raw[0] != "Absolut" {
		t.Errorf("original raw row changed to %q", r.Raw[0])
	}
	if c.Row != 4 {
		t.Errorf("clone Row = %d, want 4", c.Row)
	}
}

func TestFieldIndex_Value(t *testing.T) {
	idx := FieldIndex{FieldBrandName: 0, FieldPrice: 5}
	row := []string{"Absolut", "Citron"}

	if got := idx.Value(row, FieldBrandName); got != "Absolut" {
		t.Errorf("Value(brand_name) = %q, want Absolut", got)
	}
	if got := idx.Value(row, FieldPrice); got != "" {
		t.Errorf("Value(price) on short row = %q, want empty", got)
	}
	if got := idx.Value(row, FieldSource); got != "" {
		t.Errorf("Value(source) unmapped = %q, want empty", got)
	}
}
