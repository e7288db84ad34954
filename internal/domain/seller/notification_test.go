package seller

import "testing"

func TestParseResult(t *testing.T) {
	tests := []struct {
		raw     string
		want    Result
		wantErr bool
	}{
		{"passed", ResultPassed, false},
		{"Passed", ResultPassed, false},
		{"PASSED", ResultPassed, false},
		{"  passed  ", ResultPassed, false},
		{"failed", ResultFailed, false},
		{"FaIlEd", ResultFailed, false},
		{"pass", "", true},
		{"ok", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseResult(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResult(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseResult(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRecipients(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  []string
	}{
		{"single", "a@x.com", []string{"a@x.com"}},
		{"comma separated", "a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
		{"extra whitespace", "  a@x.com ,b@x.com  ", []string{"a@x.com", "b@x.com"}},
		{"trailing comma", "a@x.com,", []string{"a@x.com"}},
		{"empty", "", nil},
		{"only separators", " , , ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Email: tt.email}
			got := n.Recipients()
			if len(got) != len(tt.want) {
				t.Fatalf("Recipients(%q) = %v, want %v", tt.email, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Recipients(%q)[%d] = %q, want %q", tt.email, i, got[i], tt.want[i])
				}
			}
		})
	}
}
