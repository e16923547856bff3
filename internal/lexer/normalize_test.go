package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x = 1;")...)
	got := Normalize(src)
	assert.Equal(t, "x = 1;", string(got))
}

func TestNormalizeNFC(t *testing.T) {
	nfd := []byte("café") // "café" as e + combining acute
	nfc := []byte("café")
	assert.Equal(t, string(Normalize(nfc)), string(Normalize(nfd)))
}

func TestNormalizeNoOpOnPlainASCII(t *testing.T) {
	src := []byte("main() { return 0; }")
	assert.Equal(t, src, Normalize(src))
}
