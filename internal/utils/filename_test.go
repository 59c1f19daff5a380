package utils

import "testing"

func TestSecureFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"notes.txt", "notes.txt"},
		{"my file.pdf", "my_file.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\system32", "system32"},
		{"weird$chars!.mp3", "weirdchars.mp3"},
		{"...", "file"},
		{"", "file"},
	}
	for _, tc := range cases {
		if got := SecureFilename(tc.in); got != tc.want {
			t.Fatalf("SecureFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFileExt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a.TXT", "txt"},
		{"lecture.mp3", "mp3"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
	}
	for _, tc := range cases {
		if got := FileExt(tc.in); got != tc.want {
			t.Fatalf("FileExt(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
