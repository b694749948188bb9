package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRequest(t *testing.T, path, token, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req, httptest.NewRecorder()
}

func itemTitles(t *testing.T, body map[string]interface{}) []string {
	t.Helper()

	var out []string
	for _, it := range body["items"].([]interface{}) {
		out = append(out, it.(map[string]interface{})["title"].(string))
	}
	return out
}

func TestTemplateApi_items(t *testing.T) {
	app := setup(t)
	_, token := app.login(t, "kim")

	code, body := app.do(t, http.MethodPost, "/templates", token, echo.Map{
		"title": "Spanish", "subject": "Languages", "items": []echo.Map{{"title": "Greetings"}},
	})
	require.Equal(t, http.StatusCreated, code)
	itemsPath := fmt.Sprintf("/templates/%d/items", int(body["template_id"].(float64)))

	code, body = app.do(t, http.MethodPost, itemsPath, token, echo.Map{"items": []echo.Map{{"title": "Numbers"}, {"title": "Colors"}}})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 2.0, body["count"])

	code, body = app.do(t, http.MethodGet, itemsPath, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Greetings", "Numbers", "Colors"}, itemTitles(t, body))
	last := body["items"].([]interface{})[2].(map[string]interface{})
	assert.Equal(t, 3.0, last["order_no"])

	code, _ = app.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", itemsPath, int(last["item_id"].(float64))), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", itemsPath, int(last["item_id"].(float64))), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = app.do(t, http.MethodPut, itemsPath, token, echo.Map{"items": []echo.Map{{"title": "Verbs"}}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Verbs"}, itemTitles(t, body))

	code, body = app.do(t, http.MethodGet, "/templates", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["templates"], 1)

	tpl := body["templates"].([]interface{})[0].(map[string]interface{})
	code, _ = app.do(t, http.MethodDelete, fmt.Sprintf("/templates/%d", int(tpl["template_id"].(float64))), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, http.MethodGet, itemsPath, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTemplateApi_validation(t *testing.T) {
	app := setup(t)
	_, token := app.login(t, "kim")

	tests := []httpTest{
		{
			name: "blank item title", method: http.MethodPost, path: "/templates", token: token,
			body:     []byte(`{"title":"Art","subject":"Art","items":[{"title":" "}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, echo.Map{"ok": false, "error": "invalid input", "fields": echo.Map{
				"items[0].title": "this field cannot be blank",
			}}),
		},
		{name: "unknown template", method: http.MethodGet, path: "/templates/12/items", token: token, wantCode: http.StatusNotFound},
		{name: "no token", method: http.MethodGet, path: "/templates", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestTemplateApi_import(t *testing.T) {
	app := setup(t)
	_, token := app.login(t, "kim")

	code, body := app.do(t, http.MethodPost, "/templates", token, echo.Map{
		"title": "Statistics", "subject": "Math", "items": []echo.Map{{"title": "Mean"}},
	})
	require.Equal(t, http.StatusCreated, code)
	importPath := fmt.Sprintf("/templates/%d/import", int(body["template_id"].(float64)))

	code, body = app.do(t, http.MethodPost, importPath, token, echo.Map{"paste_text": "Median\thttps://example.com/median\n\nMode"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, []string{"Median", "Mode"}, itemTitles(t, body))
	assert.Equal(t, 2.0, body["items"].([]interface{})[0].(map[string]interface{})["order_no"])

	csv := []byte("Title,Link\nVariance,https://example.com/var\n,skipped\nStd dev,\n")
	req, rec := newUploadRequest(t, importPath, token, "stats.CSV", csv)
	app.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"Variance", "Std dev"}, itemTitles(t, out))

	req, rec = newUploadRequest(t, importPath, token, "stats.xlsx", []byte("PK\x03\x04"))
	app.srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marshalObj(t, echo.Map{"ok": false, "error": "unsupported file", "fields": echo.Map{"file": "only .csv files are supported"}}),
	}, rec)

	code, body = app.do(t, http.MethodPost, importPath, token, echo.Map{"paste_text": "  \n "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["ok"])

	code, body = app.do(t, http.MethodGet, importPath[:len(importPath)-len("/import")]+"/items", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Mean", "Median", "Mode", "Variance", "Std dev"}, itemTitles(t, body))
}
