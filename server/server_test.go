package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jeomja"
	"github.com/reoring/jeomja/internal/config"
	"github.com/reoring/jeomja/internal/logging"
	"github.com/reoring/jeomja/internal/tabledata"
	"github.com/reoring/jeomja/render"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := NewTableStore("", logging.Discard())
	require.NoError(t, err)
	return New(config.DefaultConfig(), logging.Discard(), store).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ko", body["tables"])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := newTestServer(t)
	for _, text := range []string{"안녕", "한글ABC123!@#테스트"} {
		rec := do(t, h, http.MethodPost, "/v1/encode", `{"text":"`+text+`"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		enc := decodeJSON[encodeResponse](t, rec)
		assert.Empty(t, enc.Issues)
		assert.Equal(t, jeomja.Encode(text).Bits(), enc.Binary)
		assert.Len(t, enc.Cells, len(jeomja.Encode(text)))

		for _, in := range []string{
			`{"unicode":"` + enc.Unicode + `"}`,
			`{"binary":"` + enc.Binary + `"}`,
			`{"dots":"` + enc.Dots + `"}`,
		} {
			rec = do(t, h, http.MethodPost, "/v1/decode", in, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			dec := decodeJSON[decodeResponse](t, rec)
			assert.Equal(t, strings.ToLower(text), dec.Text)
		}
	}
}

func TestEncodeWithoutAbbreviations(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/v1/encode", `{"text":"것","abbreviations":false}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	enc := decodeJSON[encodeResponse](t, rec)
	want, _ := jeomja.EncodeWith("것", jeomja.EncodeOpt{Normalize: true})
	assert.Equal(t, want.Bits(), enc.Binary)
}

func TestEncodeReportsUnmapped(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/encode", `{"text":"a☃"}`, map[string]string{"Accept-Language": "en"})
	require.Equal(t, http.StatusOK, rec.Code)
	enc := decodeJSON[encodeResponse](t, rec)
	require.Len(t, enc.Issues, 1)
	assert.Equal(t, jeomja.CodeUnmappedSymbol, enc.Issues[0].Code)
	assert.Equal(t, int64(1), enc.Issues[0].Offset)
	assert.Equal(t, "character not in tables", enc.Issues[0].Title)
}

func TestDecodeMarkerLanguage(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/decode", `{"dots":"236"}`, map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	dec := decodeJSON[decodeResponse](t, rec)
	assert.Equal(t, "[unknown braille: 011001]", dec.Text)
	require.Len(t, dec.Issues, 1)
	assert.Equal(t, jeomja.CodeUnrecognizedCell, dec.Issues[0].Code)

	rec = do(t, h, http.MethodPost, "/v1/decode", `{"dots":"236"}`, nil)
	dec = decodeJSON[decodeResponse](t, rec)
	assert.Equal(t, "[알 수 없는 점자: 011001]", dec.Text)
}

func TestDecodeBadInput(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		name, body, code string
	}{
		{"width", `{"binary":"11011 001100"}`, jeomja.CodeInvalidWidth},
		{"range", `{"unicode":"a"}`, jeomja.CodeOutOfRange},
		{"none", `{}`, codeInvalidRequest},
		{"two", `{"binary":"100000","dots":"1"}`, codeInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/decode", tc.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeJSON[map[string][]IssueDTO](t, rec)
			require.NotEmpty(t, body["issues"])
			assert.Equal(t, tc.code, body["issues"][0].Code)
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/decode", `{"binary":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidate(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		in    string
		valid bool
		code  string
	}{
		{"100000 110000", true, ""},
		{"11011 001100", false, jeomja.CodeInvalidWidth},
		{"110110 002100", false, jeomja.CodeInvalidDot},
		{"", false, jeomja.CodeEmpty},
	}
	for _, tc := range cases {
		rec := do(t, h, http.MethodPost, "/v1/validate", `{"binary":"`+tc.in+`"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeJSON[validateResponse](t, rec)
		assert.Equal(t, tc.valid, res.Valid, tc.in)
		if !tc.valid {
			require.NotEmpty(t, res.Issues, tc.in)
			assert.Equal(t, tc.code, res.Issues[0].Code, tc.in)
		}
	}
}

func TestRender(t *testing.T) {
	h := newTestServer(t)
	for _, format := range []render.Format{render.PNG, render.BMP} {
		rec := do(t, h, http.MethodPost, "/v1/render?format="+string(format), `{"text":"점자"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "image/"+string(format), rec.Header().Get("Content-Type"))

		img, got, err := render.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, format, got)
		seq, err := render.Scan(img, render.DefaultGeometry())
		require.NoError(t, err)
		assert.Equal(t, jeomja.Encode("점자"), seq)
	}
}

func TestRenderRejects(t *testing.T) {
	h := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/render", `{"text":""}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/render", `{"text":"a","dots":"1"}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/render?format=gif", `{"dots":"1"}`, nil).Code)
}

func TestTables(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/tables", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeJSON[tablesResponse](t, rec)
	assert.Equal(t, "ko", res.Name)
	assert.Equal(t, 19, res.Categories["initial"])
	assert.Equal(t, 26, res.Categories["letter"])
	assert.Equal(t, "3456", res.Controls["number"])
	assert.Len(t, res.Ambiguous, 6)
}

func TestConflicts(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/tables/conflicts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"conflicts":[]}`, rec.Body.String())

	bad := strings.Replace(string(tabledata.Default()), "  \"b\": \"12\"\n", "  \"b\": \"1\"\n", 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/tables/conflicts", strings.NewReader(bad))
	req.Header.Set("Content-Type", "application/yaml")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeJSON[map[string][]IssueDTO](t, rec)
	require.NotEmpty(t, res["conflicts"])
	assert.Equal(t, jeomja.CodeDuplicateGlyph, res["conflicts"][0].Code)
}
