package attachments_test

import (
	"strings"
	"testing"

	"github.com/mwhite-io/docsearch/internal/attachments"
)

func TestHashBytes(t *testing.T) {
	// Known sha256 of "hello world".
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got := attachments.HashBytes([]byte("hello world")); got != want {
		t.Errorf("HashBytes() = %q, want %q", got, want)
	}
}

func TestHashBytesContentAddressed(t *testing.T) {
	a := attachments.HashBytes([]byte("same bytes"))
	b := attachments.HashBytes([]byte("same bytes"))
	c := attachments.HashBytes([]byte("other bytes"))

	if a != b {
		t.Error("identical content produced different hashes")
	}
	if a == c {
		t.Error("distinct content produced identical hashes")
	}
}

func TestBlobKey(t *testing.T) {
	hash := attachments.HashBytes([]byte("hello world"))
	key := attachments.BlobKey(hash)

	if key != "blobs/b9/"+hash {
		t.Errorf("BlobKey() = %q", key)
	}
	if !strings.HasPrefix(key, "blobs/") {
		t.Errorf("BlobKey() = %q, want blobs/ prefix", key)
	}
}

func TestGuessMimetype(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"html", "page.html", "text/html"},
		{"json", "data.json", "application/json"},
		{"pdf", "report.pdf", "application/pdf"},
		{"no extension", "README", "text/plain"},
		{"unknown extension", "data.xyzzy", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attachments.GuessMimetype(tt.filename)
			if got != tt.want {
				t.Errorf("GuessMimetype(%q) = %q, want %q", tt.filename, got, tt.want)
			}
			if strings.Contains(got, ";") {
				t.Errorf("GuessMimetype(%q) = %q, want no parameters", tt.filename, got)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name untouched", "report.pdf", "report.pdf"},
		{"spaces replaced", "annual report.pdf", "annual_report.pdf"},
		{"path stripped", "/etc/passwd", "passwd"},
		{"relative path stripped", "../../secret.txt", "secret.txt"},
		{"unsafe characters", `a:b*c?d"e<f>g|h.txt`, "a_b_c_d_e_f_g_h.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attachments.SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
