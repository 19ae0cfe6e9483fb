package iocli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := New(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

func TestReadInput(t *testing.T) {
	var out bytes.Buffer
	stdio := New(strings.NewReader("  +213555000111 \n123456"), &out)

	phone, err := stdio.ReadInput("Phone: ")
	require.NoError(t, err)
	assert.Equal(t, "+213555000111", phone)

	// Последняя строка без перевода строки
	otp, err := stdio.ReadSecret("OTP: ")
	require.NoError(t, err)
	assert.Equal(t, "123456", otp)

	assert.Equal(t, "Phone: OTP: ", out.String())

	_, err = stdio.ReadInput("More: ")
	assert.ErrorIs(t, err, io.EOF)
}
