package extract

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestVisibleText(t *testing.T) {
	htmlContent := `
	<html>
	<head><script>var x = 1;</script><style>body { color: red; }</style></head>
	<body>
		<nav>Home | About</nav>
		<p>Visible paragraph.</p>
		<noscript>Enable JavaScript</noscript>
		<footer>Copyright</footer>
	</body>
	</html>
	`

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}

	text := VisibleText(doc)

	if !strings.Contains(text, "Visible paragraph.") {
		t.Errorf("Expected visible text, got %q", text)
	}
	for _, hidden := range []string{"var x", "color: red", "Home | About", "Enable JavaScript", "Copyright"} {
		if strings.Contains(text, hidden) {
			t.Errorf("Expected %q to be skipped, got %q", hidden, text)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Inflation rose to 3.5 percent in the last quarter of the year. Short one. " +
		"Officials said the increase was driven by food prices across the country!"

	sentences := SplitSentences(text)

	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %q", len(sentences), sentences)
	}
	if !strings.Contains(sentences[0], "3.5 percent") {
		t.Errorf("Expected decimal number to stay in one sentence, got %q", sentences[0])
	}
	if !strings.HasSuffix(sentences[1], "country!") {
		t.Errorf("Expected second sentence to end with terminator, got %q", sentences[1])
	}
}

func TestSplitSentences_Devanagari(t *testing.T) {
	text := "सरकार ने आज नई नीति की घोषणा की है। यह नीति अगले महीने से पूरे राज्य में लागू होगी।"

	sentences := SplitSentences(text)

	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences split on danda, got %d: %q", len(sentences), sentences)
	}
	if !strings.HasSuffix(sentences[0], "।") {
		t.Errorf("Expected danda to end the sentence, got %q", sentences[0])
	}
}

func TestSplitSentences_LengthBounds(t *testing.T) {
	long := strings.Repeat("word ", 120) + "end."
	sentences := SplitSentences("Too short. " + long)

	if len(sentences) != 0 {
		t.Errorf("Expected short and overlong sentences to be dropped, got %d", len(sentences))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello world", 100, "hello world"},
		{"  padded  ", 100, "padded"},
		{"aaaa bbbb cccc", 10, "aaaa bbbb..."},
		{"abcdefghijklmnop", 5, "abcde..."},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
