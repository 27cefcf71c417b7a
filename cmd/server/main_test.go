package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ota-reconciliation-backend/internal/config"
	service "ota-reconciliation-backend/internal/services/reconciliation"
)

const (
	sourceCSV = "订单号,确认号,客人姓名,到达,离开,房号\n" +
		"2025100100001234,,Zhang San,2025-10-01,2025-10-03,\n" +
		"111,,Han Meimei,2025-10-01,2025-10-02,301\n"
	systemCSV = "预订号,第三方预定号,姓名,离开,房号,状态\n" +
		"998877,2025100100001234R1,Someone Else,2025-10-03,1203,I\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAuditCommand(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "orders.csv", sourceCSV)
	system := writeFile(t, dir, "pms.csv", systemCSV)
	outPath := filepath.Join(dir, "result.xlsx")

	out, err := execute(t, "audit", "--source", source, "--system", system, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "订单共 2 条，已匹配 1 条")
	assert.Contains(t, out, outPath)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{service.SheetAuditResult, service.SheetUnmatched}, f.GetSheetList())
}

func TestAuditCommand_IgnoresServerSettings(t *testing.T) {
	t.Setenv("OTARECON_PORT", "eighty")
	dir := t.TempDir()
	source := writeFile(t, dir, "orders.csv", sourceCSV)
	system := writeFile(t, dir, "pms.csv", systemCSV)

	_, err := execute(t, "audit", "--source", source, "--system", system, "--out", filepath.Join(dir, "result.xlsx"))
	require.NoError(t, err)

	_, err = execute(t, "serve")
	assert.ErrorContains(t, err, "invalid server config")
}

func TestAuditCommand_RequiresInputs(t *testing.T) {
	_, err := execute(t, "audit", "--source", "orders.csv")
	assert.Error(t, err)
}

func TestAuditCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	system := writeFile(t, dir, "pms.csv", systemCSV)

	_, err := execute(t, "audit", "--source", filepath.Join(dir, "absent.csv"), "--system", system)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewRouter_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvTest, CORSOrigins: []string{"http://localhost:3000"}, MaxUploadMB: 1}

	r := newRouter(cfg, service.NewReconciliationService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
