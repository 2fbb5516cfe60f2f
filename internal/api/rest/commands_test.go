package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openmodbus/shmwrite/internal/config"
	"github.com/openmodbus/shmwrite/internal/engine"
	"github.com/openmodbus/shmwrite/internal/target"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	pipeline := target.NewPipeline(
		engine.NewParser(0, 0, false, nil),
		target.Discard{},
		nil,
		zap.NewNop(),
	)
	return NewServer(cfg, pipeline, zap.NewNop())
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPostCommands(t *testing.T) {
	assert := assert.New(t)
	s := testServer(t)

	rec := postJSON(t, s, "/api/v1/commands", map[string]any{
		"commands": []string{
			"ao:3:true:f32b",
			"do:5:on",
			"do:0:1:u8_lo", // rejected: data type on a coil
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp commandResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(resp.BatchID)
	assert.Equal(2, resp.Applied)
	assert.Equal(1, resp.Rejected)
	require.Len(t, resp.Results, 3)

	assert.True(resp.Results[0].Applied)
	assert.Equal(2, resp.Results[0].Registers)
	assert.True(resp.Results[1].Applied)
	assert.Equal(1, resp.Results[1].Registers)
	assert.False(resp.Results[2].Applied)
	assert.Contains(resp.Results[2].Error, "data type")
}

func TestPostCommandsBadRequest(t *testing.T) {
	assert := assert.New(t)
	s := testServer(t)

	rec := postJSON(t, s, "/api/v1/commands", map[string]any{"commands": []string{}})
	assert.Equal(http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands", bytes.NewReader([]byte("not json")))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestHealthAndDataTypes(t *testing.T) {
	assert := assert.New(t)
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/datatypes", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "f32_abcd")
	assert.Contains(rec.Body.String(), "u64_badcfehg")
}
