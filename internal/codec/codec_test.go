package codec

import (
	"errors"
	"strings"
	"testing"

	"domain-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func collection() []models.DomainRecord {
	return []models.DomainRecord{
		{ID: 3, Domain: "example.com", Status: models.StatusActive, Registrar: "Namecheap", RegisterDate: "2024-01-01", ExpireDate: "2026-01-01", RenewURL: "https://namecheap.com/renew"},
		{ID: 2, Domain: "foo.dev", Status: models.StatusExpired, Registrar: "Google, Inc.", RegisterDate: "2022-05-05", ExpireDate: "2023-05-05"},
		{Domain: "bar.io", Status: models.StatusPending, Registrar: "Porkbun", RegisterDate: "2025-03-01", ExpireDate: "2026-03-01"},
	}
}

func coreFields(rs []models.DomainRecord) []models.DomainRecord {
	out := make([]models.DomainRecord, len(rs))
	for i, r := range rs {
		out[i] = models.DomainRecord{
			Domain:       r.Domain,
			Status:       r.Status,
			Registrar:    r.Registrar,
			RegisterDate: r.RegisterDate,
			ExpireDate:   r.ExpireDate,
		}
	}
	return out
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := ExportJSON(collection())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")

	got, err := ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, collection(), Records(got))
}

func TestExportJSONEmpty(t *testing.T) {
	data, err := ExportJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestImportJSONErrors(t *testing.T) {
	for _, in := range []string{`{"domain":"a.com"}`, `not json`, `"x"`, `[1, 2]`} {
		_, err := ImportJSON([]byte(in))
		var ferr *FormatError
		assert.True(t, errors.As(err, &ferr), in)
	}
}

func TestImportJSONPassesThroughWithoutValidation(t *testing.T) {
	got, err := ImportJSON([]byte(`[{"id":"abc","domain":"","status":"weird"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].ID.String())
	assert.Equal(t, models.Status("weird"), got[0].Status)
	assert.Zero(t, got[0].Record().ID)
}

func TestCSVRoundTrip(t *testing.T) {
	data, err := ExportCSV(collection())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), string(utf8BOM)))
	assert.Contains(t, string(data), "域名,注册商,注册日期,过期日期,状态\n")
	assert.Contains(t, string(data), "已过期")

	got, err := ImportCSV(data)
	require.NoError(t, err)
	assert.Equal(t, coreFields(collection()), Records(got))
}

func TestTXTMatchesCSV(t *testing.T) {
	c, err := ExportCSV(collection())
	require.NoError(t, err)
	x, err := ExportTXT(collection())
	require.NoError(t, err)
	assert.Equal(t, c, x)

	got, err := ImportTXT(x)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestImportCSVHeaderOrderIndependent(t *testing.T) {
	canonical := "domain,registrar,register_date,expire_date,status\na.com,R,2024-01-01,2025-01-01,active\n"
	shuffled := "expire_date,domain,status,registrar,register_date\n2025-01-01,a.com,active,R,2024-01-01\n"

	a, err := ImportCSV([]byte(canonical))
	require.NoError(t, err)
	b, err := ImportCSV([]byte(shuffled))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestImportCSVMissingStatus(t *testing.T) {
	_, err := ImportCSV([]byte("domain,registrar,registerDate,expireDate,renewUrl\na.com,R,2024-01-01,2025-01-01,\n"))
	var merr *MissingColumnsError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, []string{"status"}, merr.Columns)
}

func TestImportCSVEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\r\n  \n", string(utf8BOM)} {
		_, err := ImportCSV([]byte(in))
		var eerr *EmptyFileError
		assert.True(t, errors.As(err, &eerr), "%q", in)
	}
}

func TestImportCSVHeaderOnly(t *testing.T) {
	got, err := ImportCSV([]byte("域名,注册商,注册日期,过期日期,状态\r\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImportCSVLenient(t *testing.T) {
	in := strings.Join([]string{
		`"ID", "Domain", "Registrar" ,"Registration-Date","Expiration Date","STATUS","renew_url","domain"`,
		``,
		`7,"a.com","Acme, Inc.",2024-01-01,2025-01-01,ACTIVE,https://acme.test/renew,ignored.com`,
		`x-9,b.com,R,2024-01-01,2025-01-01,已过期`,
		`,c.com,R,2024-01-01,2025-01-01,待激活,,`,
	}, "\r\n")

	got, err := ImportCSV([]byte(in))
	require.NoError(t, err)
	require.Len(t, got, 3)

	n, ok := got[0].ID.Int()
	assert.True(t, ok)
	assert.EqualValues(t, 7, n)
	assert.Equal(t, "a.com", got[0].Domain)
	assert.Equal(t, "Acme, Inc.", got[0].Registrar)
	assert.Equal(t, models.StatusActive, got[0].Status)
	assert.Equal(t, "https://acme.test/renew", got[0].RenewURL)

	assert.Equal(t, "x-9", got[1].ID.String())
	assert.Equal(t, models.StatusExpired, got[1].Status)
	assert.Empty(t, got[1].RenewURL)

	assert.True(t, got[2].ID.IsZero())
	assert.Equal(t, models.StatusPending, got[2].Status)
}

func TestSplitLine(t *testing.T) {
	assert.Equal(t, []string{"a", "b, c", "d"}, splitLine(`a,"b, c", d `))
	assert.Equal(t, []string{"", ""}, splitLine(","))
	assert.Equal(t, []string{`Foo "Bar", Inc`, "x"}, splitLine(`"Foo ""Bar"", Inc",x`))
	assert.Equal(t, []string{"", "y"}, splitLine(`"",y`))
	assert.Equal(t, []string{"ab", "c"}, splitLine(`a"b",c`))
}

func TestCSVRoundTripKeepsEmbeddedQuotes(t *testing.T) {
	records := []models.DomainRecord{
		{Domain: "a.com", Status: models.StatusActive, Registrar: `Foo "Bar", Inc`, RegisterDate: "2024-01-01", ExpireDate: "2025-01-01"},
		{Domain: "b.com", Status: models.StatusPending, Registrar: `"Quoted"`, RegisterDate: "2024-01-01", ExpireDate: "2025-01-01"},
	}
	data, err := ExportCSV(records)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Foo ""Bar"", Inc"`)

	got, err := ImportCSV(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, `Foo "Bar", Inc`, got[0].Registrar)
	assert.Equal(t, `"Quoted"`, got[1].Registrar)
	assert.Equal(t, models.StatusPending, got[1].Status)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "registerdate", normalizeHeader(` "Register_Date" `))
	assert.Equal(t, "expirationdate", normalizeHeader("Expiration-Date"))
	assert.Equal(t, "注册日期", normalizeHeader("注册 日期"))
}

func TestXLSXRoundTrip(t *testing.T) {
	data, err := ExportXLSX(collection())
	require.NoError(t, err)

	got, err := ImportXLSX(data)
	require.NoError(t, err)
	assert.Equal(t, coreFields(collection()), Records(got))
}

func TestImportXLSXMissingColumns(t *testing.T) {
	f := excelize.NewFile()
	header := []any{"domain", "registrar"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ImportXLSX(buf.Bytes())
	var merr *MissingColumnsError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, []string{"registerDate", "expireDate", "status"}, merr.Columns)
}

func TestImportXLSXNotAWorkbook(t *testing.T) {
	_, err := ImportXLSX([]byte("plain text"))
	var ferr *FormatError
	assert.True(t, errors.As(err, &ferr))
}

func TestFormats(t *testing.T) {
	f, err := FormatFromFilename("backup.CSV")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	f, err = ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, "domains.xlsx", f.Filename("domains"))

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestExportImportDispatch(t *testing.T) {
	for _, f := range []Format{JSON, CSV, TXT, XLSX} {
		t.Run(f.Name, func(t *testing.T) {
			data, err := Export(f, collection())
			require.NoError(t, err)
			got, err := Import(f, data)
			require.NoError(t, err)
			assert.Equal(t, coreFields(collection()), coreFields(Records(got)))
		})
	}
}
