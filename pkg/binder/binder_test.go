package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/matsjla/libris/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name" mod:"trim" validate:"required,max=10"`
	Count int    `json:"count" query:"count" default:"5" validate:"min=1"`
}

func newBindContext(t *testing.T, payload, method, path, ctype string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if ctype != "" {
		req.Header.Set(echo.HeaderContentType, ctype)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func TestBind_JSON(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, `{"name": "  alice  ", "count": 3}`, http.MethodPost, "/", echo.MIMEApplicationJSON)

	p := testPayload{}
	require.NoError(t, b.Bind(&p, c))
	// mod:"trim" strips the whitespace.
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, 3, p.Count)
}

func TestBind_AppliesDefaults(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, `{"name": "alice"}`, http.MethodPost, "/", echo.MIMEApplicationJSON)

	p := testPayload{}
	require.NoError(t, b.Bind(&p, c))
	assert.Equal(t, 5, p.Count)
}

func TestBind_UnknownField(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, `{"name": "alice", "bogus": true}`, http.MethodPost, "/", echo.MIMEApplicationJSON)

	p := testPayload{}
	err = b.Bind(&p, c)
	require.ErrorIs(t, err, errcodes.UnknownParameter("bogus"))
}

func TestBind_TypeError(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, `{"name": "alice", "count": "3"}`, http.MethodPost, "/", echo.MIMEApplicationJSON)

	p := testPayload{}
	err = b.Bind(&p, c)
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, "validation_type_error", errResp.Code)
}

func TestBind_ValidationError(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, `{"count": 3}`, http.MethodPost, "/", echo.MIMEApplicationJSON)

	p := testPayload{}
	err = b.Bind(&p, c)
	require.ErrorIs(t, err, errcodes.ValidationError(`"name" is required`))
}

func TestBind_EmptyBody(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, "", http.MethodPost, "/", echo.MIMEApplicationJSON)

	p := testPayload{}
	err = b.Bind(&p, c)
	require.ErrorIs(t, err, errcodes.EmptyRequestBody())
}

func TestBind_UnsupportedMediaType(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, "name=alice", http.MethodPost, "/", echo.MIMETextPlain)

	p := testPayload{}
	err = b.Bind(&p, c)
	require.ErrorIs(t, err, errcodes.UnsupportedMediaType())
}

func TestBind_QueryParams(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newBindContext(t, "", http.MethodGet, "/?count=7", "")

	p := struct {
		Count int `query:"count" validate:"min=1"`
	}{}
	require.NoError(t, b.Bind(&p, c))
	assert.Equal(t, 7, p.Count)
}
