package enum

import "testing"

func TestParseDiscountType(t *testing.T) {
	tests := []struct {
		in      string
		want    DiscountType
		wantErr bool
	}{
		{"", DiscountTypeAmount, false},
		{"amount", DiscountTypeAmount, false},
		{" Percent ", DiscountTypePercent, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDiscountType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDiscountType(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDiscountType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiscountTypeScanValue(t *testing.T) {
	var d DiscountType
	if err := d.Scan([]byte("percent")); err != nil || !d.IsPercent() {
		t.Fatalf("scan bytes: %v %q", err, d)
	}
	if err := d.Scan(nil); err != nil || d != DiscountTypeAmount {
		t.Fatalf("scan nil: %v %q", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatal("expected error scanning an int")
	}

	v, err := DiscountType("").Value()
	if err != nil || v != "amount" {
		t.Fatalf("empty value should store amount, got %v %v", v, err)
	}
}
