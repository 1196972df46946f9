package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"domain-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whoisServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWhoisLookup(t *testing.T) {
	srv := whoisServer(t, `{"code":0,"msg":"ok","data":{
		"registrar":"Alibaba Cloud",
		"creationDate":"2020-03-01T04:05:06Z",
		"expirationDate":"2027-03-01T04:05:06Z",
		"status":[{"text":"clientTransferProhibited"}],
		"nameServers":["ns1.example.com","ns2.example.com"]}}`)

	s := NewWhoisService(srv.URL+"/api/whois?token=x", time.Second)
	s.now = func() time.Time { return now }

	draft, err := s.Lookup(context.Background(), "  Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, models.DomainRecord{
		Domain:       "example.com",
		Status:       models.StatusActive,
		Registrar:    "Alibaba Cloud",
		RegisterDate: "2020-03-01",
		ExpireDate:   "2027-03-01",
	}, draft)

	info, err := s.QueryDomain(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "clientTransferProhibited", info.Status)
	assert.Len(t, info.NameServers, 2)
}

func TestWhoisLookupExpired(t *testing.T) {
	srv := whoisServer(t, `{"code":0,"data":{"registrar":"R","expirationDate":"2025-01-01"}}`)
	s := NewWhoisService(srv.URL, time.Second)
	s.now = func() time.Time { return now }

	draft, err := s.Lookup(context.Background(), "old.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, draft.Status)
	assert.Equal(t, "2025-01-01", draft.ExpireDate)
	assert.Empty(t, draft.RegisterDate)
}

func TestWhoisLookupNoExpiry(t *testing.T) {
	srv := whoisServer(t, `{"code":0,"data":{"registrar":"R"}}`)
	draft, err := NewWhoisService(srv.URL, time.Second).Lookup(context.Background(), "new.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, draft.Status)
}

func TestWhoisErrors(t *testing.T) {
	srv := whoisServer(t, `{"code":1,"msg":"quota exceeded"}`)
	_, err := NewWhoisService(srv.URL, time.Second).Lookup(context.Background(), "a.com")
	assert.EqualError(t, err, "WHOIS API error: quota exceeded")

	_, err = NewWhoisService("", time.Second).Lookup(context.Background(), "a.com")
	assert.True(t, IsNotConfigured(err))

	_, err = NewWhoisService(srv.URL, time.Second).Lookup(context.Background(), " ")
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}
