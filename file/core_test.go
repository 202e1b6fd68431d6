package file

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	processor "pdftext/process"
	"pdftext/pkg/pdftest"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore() *Core {
	return NewCore(processor.NewClient(processor.NewLedongthucExtractor(nil)), nil)
}

// run feeds input through Core.Run and decodes the single output line.
func run(t *testing.T, input string) (ExtractionResult, string) {
	t.Helper()

	var out bytes.Buffer
	require.NoError(t, newTestCore().Run(strings.NewReader(input), &out))

	line := out.String()
	require.True(t, strings.HasSuffix(line, "\n"), "output should end with a newline")
	require.Equal(t, 1, strings.Count(line, "\n"), "output should be exactly one line")

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &raw), "output should be valid JSON")

	var res ExtractionResult
	require.NoError(t, json.Unmarshal([]byte(line), &res))
	return res, line
}

func TestCore_Run(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		wantSuccess bool
		wantText    string
	}{
		{"HelloWorld", pdftest.BuildBase64(pdftest.TextPage("Hello World")), true, "Hello World"},
		{"BlankPage", pdftest.BuildBase64(pdftest.BlankPage()), true, ""},
		{"TrailingNewline", pdftest.BuildBase64(pdftest.TextPage("Hello World")) + "\n", true, "Hello World"},
		{"InvalidBase64", "this is not base64!", false, ""},
		{"NotAPDF", base64.StdEncoding.EncodeToString([]byte("not a pdf")), false, ""},
		{"EmptyInput", "", false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, _ := run(t, tc.input)

			assert.Equal(t, tc.wantSuccess, res.Success)
			if tc.wantSuccess {
				assert.Equal(t, tc.wantText, strings.Join(strings.Fields(res.Text), " "))
				assert.Empty(t, res.Error)
			} else {
				assert.NotEmpty(t, res.Error)
				assert.Empty(t, res.Text)
			}
		})
	}
}

func TestCore_Run_WireShape(t *testing.T) {
	_, line := run(t, pdftest.BuildBase64(pdftest.BlankPage()))
	assert.Equal(t, `{"success":true,"text":""}`+"\n", line)

	_, line = run(t, base64.StdEncoding.EncodeToString([]byte("not a pdf")))
	assert.True(t, strings.HasPrefix(line, `{"success":false,"error":"`), line)
	assert.NotContains(t, line, `"text"`)
}

func TestCore_Run_WrappedBase64(t *testing.T) {
	encoded := pdftest.BuildBase64(pdftest.TextPage("Hello World"))

	// Wrap at 76 columns like base64(1).
	var wrapped strings.Builder
	for len(encoded) > 76 {
		wrapped.WriteString(encoded[:76] + "\n")
		encoded = encoded[76:]
	}
	wrapped.WriteString(encoded + "\n")

	res, _ := run(t, wrapped.String())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Hello World", strings.Join(strings.Fields(res.Text), " "))
}

func TestCore_Run_MultiPage(t *testing.T) {
	res, _ := run(t, pdftest.BuildBase64(
		pdftest.TextPage("Page one"),
		pdftest.TextPage("Page two"),
		pdftest.TextPage("Page three"),
	))
	require.True(t, res.Success, res.Error)

	assert.Equal(t, "Page one Page two Page three", strings.Join(strings.Fields(res.Text), " "))
	assert.Equal(t, strings.TrimSpace(res.Text), res.Text)
	assert.GreaterOrEqual(t, strings.Count(res.Text, "\n"), 2)
}

func TestCore_Run_PageFailureDropsEarlierPages(t *testing.T) {
	res, line := run(t, pdftest.BuildBase64(
		pdftest.TextPage("first page"),
		pdftest.UnreadablePage("second page"),
	))

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "page 2")
	assert.NotContains(t, line, "first page")
}

func TestCore_Run_CyclicPageTree(t *testing.T) {
	input := base64.StdEncoding.EncodeToString(pdftest.BuildCyclic(pdftest.TextPage("Hello World")))

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- newTestCore().Run(strings.NewReader(input), &out)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no result line written")
	}

	var res ExtractionResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestCore_Run_Idempotent(t *testing.T) {
	inputs := []string{
		pdftest.BuildBase64(pdftest.TextPage("Hello World"), pdftest.BlankPage()),
		"%%%",
		base64.StdEncoding.EncodeToString([]byte("not a pdf")),
	}

	for _, input := range inputs {
		_, first := run(t, input)
		_, second := run(t, input)
		assert.Equal(t, first, second)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestCore_Run_ReadError(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newTestCore().Run(failingReader{}, &out))

	var res ExtractionResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "broken pipe")
}

func TestCore_ExtractReader(t *testing.T) {
	res := newTestCore().ExtractReader(bytes.NewReader(pdftest.Build(pdftest.TextPage("Hello World"))))
	require.True(t, res.IsOk(), res.Error())
	assert.Equal(t, "Hello World", strings.Join(strings.Fields(res.MustGet()), " "))

	res = newTestCore().ExtractReader(failingReader{})
	require.True(t, res.IsError())
	assert.Contains(t, res.Error().Error(), "broken pipe")
}

func TestDecodePayload(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"Plain", "aGVsbG8=", "hello", false},
		{"Whitespace", " aGVs\r\nbG8=\t\n", "hello", false},
		{"Empty", "", "", false},
		{"IllegalCharacter", "aGVs*bG8=", "", true},
		{"MissingPadding", "aGVsbG8", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := DecodePayload(tc.payload)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}

func TestNewResult(t *testing.T) {
	ok := NewResult(mo.Ok("text"))
	assert.Equal(t, &ExtractionResult{Success: true, Text: "text"}, ok)

	failed := NewResult(mo.Err[string](errors.New("boom")))
	assert.Equal(t, &ExtractionResult{Success: false, Error: "boom"}, failed)
}
