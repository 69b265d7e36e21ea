package source

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestNewTextReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "plain ascii", input: []byte("a,b\n1,2\n"), want: "a,b\n1,2\n"},
		{name: "bom removed", input: []byte("\xEF\xBB\xBFa,b\n"), want: "a,b\n"},
		{name: "bom only", input: []byte("\xEF\xBB\xBF"), want: ""},
		{name: "valid multibyte kept", input: []byte("caf\xC3\xA9"), want: "café"},
		{name: "invalid byte replaced", input: []byte("a\xFFb"), want: "a�b"},
		{name: "empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("NewTextReader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTextReader_SplitReads(t *testing.T) {
	input := "\xEF\xBB\xBFnaïve,日本\n"
	r := NewTextReader(iotest.OneByteReader(strings.NewReader(input)))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "naïve,日本\n" {
		t.Errorf("NewTextReader() = %q, want multibyte runes intact", got)
	}
}

func TestLimitReader(t *testing.T) {
	t.Run("under budget", func(t *testing.T) {
		r, lr := wrap(strings.NewReader("hello"), 10)
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(got) != "hello" || lr.BytesRead != 5 {
			t.Errorf("read %q (%d bytes), want hello (5)", got, lr.BytesRead)
		}
	})

	t.Run("over budget", func(t *testing.T) {
		r, _ := wrap(strings.NewReader(strings.Repeat("x", 100)), 10)
		if _, err := io.ReadAll(r); !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("ReadAll() error = %v, want ErrFileTooLarge", err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		r, _ := wrap(strings.NewReader(strings.Repeat("x", 100)), 0)
		got, err := io.ReadAll(r)
		if err != nil || len(got) != 100 {
			t.Errorf("ReadAll() = %d bytes, %v; want 100, nil", len(got), err)
		}
	})
}
