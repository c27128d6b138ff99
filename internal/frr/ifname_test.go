package frr

import "testing"

func TestIfIndex(t *testing.T) {
	tests := []struct {
		name   string
		want   uint32
		wantOK bool
	}{
		{"vlan1", 1, true},
		{"vlan4095", 4095, true},
		{"vlan4096", 0, false},
		{"vlan0", 0, false},
		{"vlan01", 0, false},
		{"vlan", 0, false},
		{"VLINK1", VLinkIfIndexBase + 1, true},
		{"VLINK0", 0, false},
		{"eth0", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IfIndex(tt.name)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("IfIndex(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
			if !ok {
				return
			}
			name, ok := IfName(got)
			if !ok || name != tt.name {
				t.Errorf("IfName(%d) = %q, %v; want %q", got, name, ok, tt.name)
			}
		})
	}
}

func TestIfNameInvalid(t *testing.T) {
	for _, ifx := range []uint32{0, 4096, VLinkIfIndexBase, VLinkIfIndexBase + VLinkMax + 1} {
		if name, ok := IfName(ifx); ok {
			t.Errorf("IfName(%d) = %q, want not ok", ifx, name)
		}
	}
}

func TestID(t *testing.T) {
	for _, s := range []string{"0.0.0.0", "10.0.0.1", "255.255.255.255"} {
		id, err := ParseID(s)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", s, err)
		}
		if got := FormatID(id); got != s {
			t.Errorf("FormatID(ParseID(%q)) = %q", s, got)
		}
	}
	for _, s := range []string{"", "1.2.3", "::1", "1.2.3.256"} {
		if _, err := ParseID(s); err == nil {
			t.Errorf("ParseID(%q) expected error", s)
		}
	}
}
