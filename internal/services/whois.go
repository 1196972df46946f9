package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domain-panel/internal/models"
)

// DomainInfo represents WHOIS query result
type DomainInfo struct {
	Domain      string    `json:"domain"`
	Registrar   string    `json:"registrar"`
	ExpiryDate  time.Time `json:"expiry_date"`
	CreatedDate time.Time `json:"created_date"`
	Status      string    `json:"status"`
	NameServers []string  `json:"name_servers"`
}

// WhoisService prefills new records from a WHOIS API
type WhoisService struct {
	APIURL string
	client *http.Client
	now    func() time.Time
}

// NewWhoisService creates a new WHOIS service
func NewWhoisService(apiURL string, timeout time.Duration) *WhoisService {
	return &WhoisService{
		APIURL: apiURL,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Lookup queries domain and returns a draft record for the add form. The
// draft is not validated; fields the registry does not report stay empty.
func (s *WhoisService) Lookup(ctx context.Context, domain string) (models.DomainRecord, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	draft := models.NewDraft()
	draft.Domain = domain
	if domain == "" {
		return draft, &models.ValidationError{Errors: []string{models.MsgDomainRequired}}
	}

	info, err := s.QueryDomain(ctx, domain)
	if err != nil {
		return draft, err
	}

	draft.Registrar = info.Registrar
	if !info.CreatedDate.IsZero() {
		draft.RegisterDate = info.CreatedDate.UTC().Format(models.DateLayout)
	}
	switch {
	case info.ExpiryDate.IsZero():
		draft.Status = models.StatusPending
	case !info.ExpiryDate.After(s.now()):
		draft.Status = models.StatusExpired
		draft.ExpireDate = info.ExpiryDate.UTC().Format(models.DateLayout)
	default:
		draft.ExpireDate = info.ExpiryDate.UTC().Format(models.DateLayout)
	}
	return draft, nil
}

// QueryDomain queries WHOIS information for a domain
func (s *WhoisService) QueryDomain(ctx context.Context, domain string) (*DomainInfo, error) {
	if s.APIURL == "" {
		return nil, &NotConfiguredError{Service: "WHOIS", Hint: "请配置WHOIS_API_URL"}
	}

	// Build API URL with parameters
	apiURL, err := url.Parse(s.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	params := apiURL.Query()
	params.Set("domain", domain)
	apiURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query WHOIS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("WHOIS API returned status %d", resp.StatusCode)
	}

	var body whoisResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse WHOIS response: %w", err)
	}
	if body.Code != 0 {
		return nil, fmt.Errorf("WHOIS API error: %s", body.Msg)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("no data in WHOIS response")
	}
	return body.Data.info(domain), nil
}

// whoisResponse is the {code, msg, data} envelope of the WHOIS API
type whoisResponse struct {
	Code int        `json:"code"`
	Msg  string     `json:"msg"`
	Data *whoisData `json:"data"`
}

type whoisData struct {
	Registrar      string   `json:"registrar"`
	ExpirationDate string   `json:"expirationDate"`
	CreationDate   string   `json:"creationDate"`
	NameServers    []string `json:"nameServers"`
	Status         []struct {
		Text string `json:"text"`
	} `json:"status"`
}

// info converts the payload. Unparseable dates stay zero; the first status
// entry wins.
func (d *whoisData) info(domain string) *DomainInfo {
	info := &DomainInfo{
		Domain:      domain,
		Registrar:   d.Registrar,
		NameServers: d.NameServers,
		ExpiryDate:  models.DateOrZero(d.ExpirationDate),
		CreatedDate: models.DateOrZero(d.CreationDate),
	}
	if len(d.Status) > 0 {
		info.Status = d.Status[0].Text
	}
	return info
}
