package shader

import (
	"strings"
	"testing"
)

func TestDefine(t *testing.T) {
	src := "#version 410 core\nvoid main() {}\n"
	got := Define(src, map[string]string{"MAX_SPOT": "4", "MAX_DIR": "2"})
	want := "#version 410 core\n#define MAX_DIR 2\n#define MAX_SPOT 4\nvoid main() {}\n"
	if got != want {
		t.Errorf("Define() =\n%q\nwant\n%q", got, want)
	}
}

func TestDefineLeadingWhitespace(t *testing.T) {
	src := "\n\n  #version 410 core\nvoid main() {}"
	got := Define(src, map[string]string{"A": "1"})
	if !strings.HasPrefix(got, "#version 410 core\n#define A 1\n") {
		t.Errorf("version line must stay first, got %q", got)
	}
}

func TestDefineWithoutVersion(t *testing.T) {
	got := Define("void main() {}", map[string]string{"A": "1"})
	if got != "#define A 1\nvoid main() {}" {
		t.Errorf("Define() = %q", got)
	}
}

func TestDefineVersionOnly(t *testing.T) {
	got := Define("#version 410 core", map[string]string{"A": "1"})
	if got != "#version 410 core\n#define A 1\n" {
		t.Errorf("Define() = %q", got)
	}
}

func TestDefineNone(t *testing.T) {
	src := "#version 410 core\n"
	if got := Define(src, nil); got != src {
		t.Errorf("Define(nil) changed source: %q", got)
	}
}
