package web

import "testing"

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
		{3 * 1024 * 1024 * 1024 / 2, "1.5 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine == nil {
		t.Fatal("NewEngine returned nil engine")
	}
	if err := engine.Load(); err != nil {
		t.Fatalf("loading templates failed: %v", err)
	}
}

func TestStatic(t *testing.T) {
	static, err := Static()
	if err != nil {
		t.Fatalf("Static failed: %v", err)
	}

	f, err := static.Open("/css/style.css")
	if err != nil {
		t.Fatalf("opening stylesheet: %v", err)
	}
	f.Close()
}
